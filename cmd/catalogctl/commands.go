package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/catalog-browser/internal/app"
	"github.com/example/catalog-browser/internal/config"
	"github.com/example/catalog-browser/internal/domain/catalog"
	"github.com/example/catalog-browser/internal/fixture"
	"github.com/example/catalog-browser/internal/query"
)

// browseOptions are the intents applied by the browse command, in order
type browseOptions struct {
	file       string
	categories []string
	brands     []string
	minPrice   int
	maxPrice   int
	inStock    bool
	sortBy     string
	compare    []string
	asJSON     bool
}

var (
	browseOpts browseOptions
	seedFile   string

	rootCmd = &cobra.Command{
		Use:           "catalogctl",
		Short:         "Inspect and manage the product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	browseCmd = &cobra.Command{
		Use:   "browse",
		Short: "Filter, sort and compare products offline and print the visible view",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := loadProducts(browseOpts.file)
			if err != nil {
				return err
			}
			return runBrowse(cmd.OutOrStdout(), products, browseOpts)
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Write the product catalog to PostgreSQL (requires DATABASE_URL)",
		RunE:  runSeed,
	}

	replayCmd = &cobra.Command{
		Use:   "replay [session-id]",
		Short: "Rebuild a session from the event log and print its catalog view",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
)

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVar(&browseOpts.file, "file", "", "YAML product file (defaults to the built-in catalog)")
	browseCmd.Flags().StringSliceVar(&browseOpts.categories, "category", nil, "Only show these categories")
	browseCmd.Flags().StringSliceVar(&browseOpts.brands, "brand", nil, "Only show these brands")
	browseCmd.Flags().IntVar(&browseOpts.minPrice, "min", 0, "Minimum price")
	browseCmd.Flags().IntVar(&browseOpts.maxPrice, "max", catalog.MaxPriceCeiling, "Maximum price")
	browseCmd.Flags().BoolVar(&browseOpts.inStock, "in-stock", false, "Hide out-of-stock products")
	browseCmd.Flags().StringVar(&browseOpts.sortBy, "sort", string(catalog.SortRecommended), "Sort key ("+sortKeyList()+")")
	browseCmd.Flags().StringSliceVar(&browseOpts.compare, "compare", nil, "Product ids to add to the comparison set")
	browseCmd.Flags().BoolVar(&browseOpts.asJSON, "json", false, "Print the catalog view as JSON")

	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML product file (defaults to the built-in catalog)")

	rootCmd.AddCommand(replayCmd)
}

func sortKeyList() string {
	keys := make([]string, 0, len(catalog.SortKeys))
	for _, k := range catalog.SortKeys {
		keys = append(keys, string(k))
	}
	return strings.Join(keys, ", ")
}

func loadProducts(path string) ([]catalog.Product, error) {
	if path == "" {
		return fixture.Products(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return fixture.Parse(data)
}

func runBrowse(out io.Writer, products []catalog.Product, opts browseOptions) error {
	s := catalog.NewStore(products)
	if len(opts.categories) > 0 {
		s.Dispatch(catalog.CategoryFilterSet{Categories: opts.categories})
	}
	if len(opts.brands) > 0 {
		s.Dispatch(catalog.BrandFilterSet{Brands: opts.brands})
	}
	s.Dispatch(catalog.PriceFilterSet{Range: catalog.PriceRange{Min: opts.minPrice, Max: opts.maxPrice}})
	s.Dispatch(catalog.InStockOnlySet{InStockOnly: opts.inStock})
	s.Dispatch(catalog.SortKeySet{SortBy: catalog.SortKey(opts.sortBy)})

	for _, id := range opts.compare {
		p, ok := catalog.FindProduct(products, id)
		if !ok {
			return fmt.Errorf("compare %s: %w", id, catalog.ErrProductNotFound)
		}
		s.Dispatch(catalog.ComparisonAdded{Product: p})
	}

	view := query.BuildCatalogView(s.State())
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return printView(out, view)
}

func printView(out io.Writer, view *query.CatalogView) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tRATING\tSTOCK\tCOMPARE")
	for _, p := range view.Products {
		stock := "yes"
		if !p.InStock {
			stock = "no"
		}
		compare := ""
		if p.InComparison {
			compare = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.1f\t%s\t%s\n",
			p.ID, p.Name, p.Brand, p.Category, p.Price, p.Rating, stock, compare)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d of %d products (sort: %s)\n", view.VisibleCount, view.TotalCount, view.SortBy)
	if len(view.Comparison.Highlights) > 0 {
		fmt.Fprintln(out, "Comparison:")
		for _, h := range view.Comparison.Highlights {
			fmt.Fprintf(out, "  %s price=%s rating=%s\n", h.ProductID, orDash(string(h.Price)), orDash(string(h.Rating)))
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := buildWithDatabase(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	products, err := loadProducts(seedFile)
	if err != nil {
		return err
	}
	if err := a.Products.SeedProducts(ctx, products); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", len(products))
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := buildWithDatabase(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.Projector.Rebuild(ctx, args[0])
	if err != nil {
		return err
	}
	state, version := session.Snapshot()
	view := query.BuildCatalogView(state)
	view.SessionID = args[0]
	view.Version = version

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func buildWithDatabase(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	return app.Build(ctx, cfg, app.Options{})
}
