package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/config"
	"kalasahayak/internal/idgen"
	"kalasahayak/internal/logging"
	"kalasahayak/internal/product"
)

var (
	count   int
	skipSamples bool
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Insert the sample products and optional synthetic items into Postgres",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseDSN == "" {
			return fmt.Errorf("DB_DSN is required")
		}
		log, err := logging.New(cfg.LogLevel, "console")
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx := cmd.Context()
		pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		return seed(ctx, product.NewPostgresRepo(pool, 10*time.Second), log)
	},
}

func init() {
	rootCmd.Flags().IntVar(&count, "count", 0, "number of synthetic products to add")
	rootCmd.Flags().BoolVar(&skipSamples, "skip-samples", false, "do not insert the sample products")
}

type upserter interface {
	Upsert(ctx context.Context, item catalog.Item) error
}

func seed(ctx context.Context, repo upserter, log *zap.Logger) error {
	if !skipSamples {
		for _, it := range product.SampleItems() {
			if err := repo.Upsert(ctx, it); err != nil {
				return fmt.Errorf("insert sample %s: %w", it.ID, err)
			}
		}
		log.Info("inserted sample products", zap.Int("count", len(product.SampleItems())))
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	for i := range count {
		it, err := syntheticItem(rng, i)
		if err != nil {
			return err
		}
		if err := repo.Upsert(ctx, it); err != nil {
			return fmt.Errorf("insert synthetic %s: %w", it.ID, err)
		}
		if (i+1)%500 == 0 {
			log.Info("seeding", zap.Int("done", i+1), zap.Int("total", count))
		}
	}
	if count > 0 {
		log.Info("inserted synthetic products", zap.Int("count", count))
	}
	return nil
}

var (
	crafts = map[catalog.Category][]string{
		catalog.CategoryRugs:       {"Kashmiri Silk Rug", "Bhadohi Wool Carpet", "Jaipur Dhurrie"},
		catalog.CategoryPottery:    {"Blue Pottery Vase", "Terracotta Planter", "Khurja Glazed Bowl"},
		catalog.CategoryTextiles:   {"Banarasi Silk Saree", "Kalamkari Stole", "Bandhani Dupatta"},
		catalog.CategoryJewelry:    {"Kundan Necklace", "Oxidised Silver Jhumka", "Thewa Pendant"},
		catalog.CategoryWoodwork:   {"Sheesham Jewellery Box", "Channapatna Toy Set", "Carved Walnut Tray"},
		catalog.CategoryMetalcraft: {"Dokra Brass Figurine", "Bidriware Vase", "Copper Water Jug"},
	}
	artisans = []string{"Asha Patel", "Ravi Kumar", "Meera Joshi", "Imran Sheikh", "Lakshmi Rao", "Gurpreet Kaur"}
)

func syntheticItem(rng *rand.Rand, i int) (catalog.Item, error) {
	id, err := idgen.New(idgen.ProductPrefix)
	if err != nil {
		return catalog.Item{}, err
	}
	cats := catalog.Categories()
	c := catalog.Category(cats[rng.IntN(len(cats))].Value)
	names := crafts[c]

	price := decimal.NewFromInt(int64(300 + rng.IntN(20000)))
	it := catalog.Item{
		ID:          id,
		Title:       fmt.Sprintf("%s #%d", names[rng.IntN(len(names))], i+1),
		ArtisanName: artisans[rng.IntN(len(artisans))],
		Category:    c,
		Price:       price,
		Rating:      float64(30+rng.IntN(21)) / 10,
		ReviewCount: rng.IntN(250),
		IsNew:       rng.IntN(5) == 0,
	}
	if rng.IntN(4) == 0 {
		orig := price.Mul(decimal.NewFromFloat(1.25)).Round(0)
		it.OriginalPrice = &orig
		it.IsOnSale = true
	}
	return it, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
