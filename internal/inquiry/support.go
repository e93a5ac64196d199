package inquiry

import (
	"net/url"
	"strings"
)

const (
	DefaultSupportMessage    = "Hello! I need help with Kala Sahayak."
	ArtisanOnboardingMessage = "Hi! I'm an artisan interested in joining Kala Sahayak platform. Can you help me get started?"
)

type SupportLinks struct {
	Support           string `json:"support"`
	ArtisanOnboarding string `json:"artisan_onboarding"`
}

// WhatsAppLink builds a click-to-chat link. wa.me expects the number as
// digits only.
func WhatsAppLink(phone, message string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits.String() + "?text=" + text
}

func Links(phone, supportMessage string) SupportLinks {
	if strings.TrimSpace(supportMessage) == "" {
		supportMessage = DefaultSupportMessage
	}
	return SupportLinks{
		Support:           WhatsAppLink(phone, supportMessage),
		ArtisanOnboarding: WhatsAppLink(phone, ArtisanOnboardingMessage),
	}
}
