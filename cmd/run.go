package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/irfanturkoz/google-maps-scraper/internal/export"
	"github.com/irfanturkoz/google-maps-scraper/internal/scraper"
	"github.com/irfanturkoz/google-maps-scraper/pkg/maps"
)

var (
	runLocation string
	runType     string
	runRadius   float64
	runOut      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single search and export the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Maps.APIKey == "" {
			return eris.New("missing Google Maps API credential (set GOOGLE_MAPS_API_KEY)")
		}

		client := newMapsClient()
		agg := scraper.NewAggregator(client, &cfg.Search)

		req := scraper.SearchRequest{
			Location:     runLocation,
			BusinessType: runType,
			RadiusKM:     runRadius,
		}

		records, err := agg.Search(ctx, req)
		if err != nil {
			return eris.Wrap(err, "search")
		}
		if len(records) == 0 {
			zap.L().Warn("no businesses found, try different terms or a wider radius")
			return nil
		}

		out := runOut
		if out == "" {
			clean := strings.NewReplacer(" ", "_", ",", "")
			out = clean.Replace(runLocation) + "_" + clean.Replace(runType) + ".xlsx"
		}
		if !strings.HasSuffix(out, ".xlsx") {
			out += ".xlsx"
		}

		if err := export.WriteXLSX(records, out); err != nil {
			return eris.Wrap(err, "export")
		}

		withWebsite := 0
		for _, rec := range records {
			if rec.Website != "N/A" {
				withWebsite++
			}
		}

		abs, _ := filepath.Abs(out)
		zap.L().Info("search complete",
			zap.Int("businesses", len(records)),
			zap.Int("with_website", withWebsite),
			zap.String("file", abs),
		)
		return nil
	},
}

func newMapsClient() maps.Client {
	opts := []maps.Option{maps.WithRateLimit(cfg.Maps.RateLimit)}
	if cfg.Maps.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.Maps.BaseURL))
	}
	return maps.NewClient(cfg.Maps.APIKey, opts...)
}

func init() {
	runCmd.Flags().StringVar(&runLocation, "location", "", "location to search, e.g. 'Kadıköy, İstanbul, Turkey'")
	runCmd.Flags().StringVar(&runType, "type", "", "business type, e.g. 'eczane'")
	runCmd.Flags().Float64Var(&runRadius, "radius", 3, "search radius in kilometers")
	runCmd.Flags().StringVar(&runOut, "out", "", "output file (default derived from location and type)")
	_ = runCmd.MarkFlagRequired("location")
	_ = runCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(runCmd)
}
