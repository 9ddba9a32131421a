package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/export"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/input"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/report"
)

var (
	analyzeCities    []string
	analyzeInput     string
	analyzeStartYear int
	analyzeEndYear   int
	analyzeExportDir string
	analyzeJSON      bool
	analyzeNoExport  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch, join, and compare data for a set of cities",
	Long:  "Resolves each city to its county, pulls demographics, employment, and crime data for the year range, and writes a comparison report plus CSV/XLSX tables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		selections, err := buildSelections(cmd)
		if err != nil {
			return err
		}

		result, err := newPipeline().Run(ctx, selections)
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return eris.Wrap(err, "encode result")
			}
		} else {
			fmt.Print(report.FormatReport(result))
		}

		if analyzeNoExport {
			return nil
		}

		dir := analyzeExportDir
		if dir == "" {
			dir = cfg.Export.Dir
		}
		paths, err := export.WriteCSV(result, dir)
		if err != nil {
			return err
		}
		xlsxPath, err := export.WriteXLSX(result, dir)
		if err != nil {
			return err
		}
		reportPath := filepath.Join(dir, "report.md")
		if err := os.WriteFile(reportPath, []byte(report.FormatReport(result)), 0o644); err != nil {
			return eris.Wrap(err, "write report")
		}

		zap.L().Info("exports written",
			zap.Strings("csv", paths),
			zap.String("xlsx", xlsxPath),
			zap.String("report", reportPath),
		)

		return nil
	},
}

// buildSelections merges the --input file and repeated --city flags.
func buildSelections(cmd *cobra.Command) ([]model.Selection, error) {
	var selections []model.Selection

	if analyzeInput != "" {
		fromFile, err := input.LoadFile(cmd.Context(), analyzeInput)
		if err != nil {
			return nil, err
		}
		selections = append(selections, fromFile...)
	}

	if len(analyzeCities) > 0 {
		fromFlags, err := input.FromFlags(analyzeCities, analyzeStartYear, analyzeEndYear)
		if err != nil {
			return nil, err
		}
		selections = append(selections, fromFlags...)
	}

	return selections, nil
}

func init() {
	analyzeCmd.Flags().StringArrayVar(&analyzeCities, "city", nil, `city to analyze as "Name,ST" (repeatable)`)
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "selections file (.csv or .yaml)")
	analyzeCmd.Flags().IntVar(&analyzeStartYear, "start-year", model.MinYear, "first year for --city selections")
	analyzeCmd.Flags().IntVar(&analyzeEndYear, "end-year", 2023, "last year for --city selections")
	analyzeCmd.Flags().StringVar(&analyzeExportDir, "export-dir", "", "export directory (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON instead of the text report")
	analyzeCmd.Flags().BoolVar(&analyzeNoExport, "no-export", false, "skip writing CSV/XLSX artifacts")
	rootCmd.AddCommand(analyzeCmd)
}
