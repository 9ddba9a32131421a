package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/area"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/config"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/fetcher"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/pipeline"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/source"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "citydata",
	Short: "City market analysis from public data",
	Long:  "Pulls county demographics from the Census Bureau, employment from BLS, and crime indices from city-data.com, joins them per city and year, and compares markets.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newPipeline builds the fetch layer and wires the sources from config.
func newPipeline() *pipeline.Pipeline {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
	})

	resolver := area.NewResolver(f, cfg.CityData.BaseURL, cfg.Census.BaseURL, cfg.Census.APIKey)
	demo := source.NewCensusSource(f, cfg.Census.BaseURL, cfg.Census.APIKey)
	emp := source.NewBLSSource(f, cfg.BLS.BaseURL, cfg.BLS.APIKey)
	crime := source.NewCrimeDataSource(f, cfg.CityData.BaseURL)

	return pipeline.New(resolver, demo, emp, crime)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
