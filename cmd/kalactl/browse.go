package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/product"
)

type browseOptions struct {
	file     string
	category string
	search   string
	sort     string
	page     int
	pageSize int
	loadMore int
}

func newBrowseCmd() *cobra.Command {
	var o browseOptions
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Run a gallery query locally over the sample catalog or a JSON file of items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.OutOrStdout(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.file, "file", "", "JSON array of catalog items (defaults to the sample catalog)")
	f.StringVar(&o.category, "category", "", "comma separated categories, or all")
	f.StringVar(&o.search, "q", "", "search text matched against title and artisan")
	f.StringVar(&o.sort, "sort", string(catalog.SortFeatured), "sort key")
	f.IntVar(&o.page, "page", 1, "page number")
	f.IntVar(&o.pageSize, "page-size", 8, "items per page")
	f.IntVar(&o.loadMore, "load-more", 0, "extra pages to append after the first, as the gallery's load more button does (always starts at page 1)")
	cmd.MarkFlagsMutuallyExclusive("page", "load-more")
	return cmd
}

func loadItems(path string) ([]catalog.Item, error) {
	if path == "" {
		return product.SampleItems(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []catalog.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := catalog.ValidateCandidates(items); err != nil {
		return nil, err
	}
	return items, nil
}

func runBrowse(w io.Writer, o browseOptions) error {
	items, err := loadItems(o.file)
	if err != nil {
		return err
	}
	cats, err := catalog.ParseCategories(o.category)
	if err != nil {
		return err
	}
	sortKey, err := catalog.ParseSortKey(o.sort)
	if err != nil {
		return err
	}
	q := catalog.Query{Categories: cats, Search: o.search, Sort: sortKey, Page: o.page, PageSize: o.pageSize}

	if o.loadMore > 0 {
		feed, err := catalog.NewFeed(q)
		if err != nil {
			return err
		}
		for range o.loadMore + 1 {
			if _, err := feed.Next(items); err != nil {
				return err
			}
		}
		if jsonOutput {
			return printJSON(w, map[string]any{
				"items":    feed.Items(),
				"loaded":   feed.Loaded(),
				"total":    feed.Total(),
				"has_more": feed.HasMore(),
			})
		}
		printItems(w, feed.Items())
		fmt.Fprintf(w, "\n%d of %d items, %d pages loaded, more: %t\n", len(feed.Items()), feed.Total(), feed.Loaded(), feed.HasMore())
		return nil
	}

	res, err := catalog.Run(items, q)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(w, res)
	}
	printItems(w, res.Items)
	from, to := res.Window()
	fmt.Fprintf(w, "\nShowing %d-%d of %d (page %d/%d), active filters: %d\n",
		from, to, res.TotalMatched, res.Page, res.TotalPages, catalog.ActiveFilterCount(q))
	return nil
}

func printItems(w io.Writer, items []catalog.Item) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTISAN\tCATEGORY\tPRICE\tRATING")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\n", it.ID, it.Title, it.ArtisanName, it.Category, it.Price.StringFixed(2), it.Rating)
	}
	_ = tw.Flush()
}
