// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-insights/internal/categories"
	"github.com/pdiddy/paper-insights/pkg/types"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the most frequent categories for a year",
	Long: `Categories reads the categories and version history of every record in
the configured SQLite table, derives each record's year, and prints the most
frequent categories for the requested year.

--column selects the year: version_year (last version's creation date) or
update_year (the update_date column). Data-source problems are printed as
warnings; the report is still written.`,
	RunE: runCategories,
}

func init() {
	categoriesCmd.Flags().Int("year", 0, "year to rank (default 2020)")
	categoriesCmd.Flags().String("column", categories.ColumnVersionYear, "year column: version_year or update_year")
	categoriesCmd.Flags().String("db", "", "SQLite database path (default data/arxiv.db)")
	categoriesCmd.Flags().String("driver", "", "SQLite driver: sqlite3 (cgo) or sqlite (pure Go)")
	categoriesCmd.Flags().String("table", "", "table holding the records (default ARXIV)")
	categoriesCmd.Flags().Int("top", 0, "number of categories to keep (default 10)")
	categoriesCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")

	viper.BindPFlag("categories.year", categoriesCmd.Flags().Lookup("year"))
	viper.BindPFlag("categories.database", categoriesCmd.Flags().Lookup("db"))
	viper.BindPFlag("categories.driver", categoriesCmd.Flags().Lookup("driver"))
	viper.BindPFlag("categories.table", categoriesCmd.Flags().Lookup("table"))
	viper.BindPFlag("categories.top", categoriesCmd.Flags().Lookup("top"))

	rootCmd.AddCommand(categoriesCmd)
}

// categoryReport is the serialized form of a categories.Report.
type categoryReport struct {
	Year     int                  `json:"year" yaml:"year"`
	Column   string               `json:"column" yaml:"column"`
	Ranks    []types.CategoryRank `json:"ranks" yaml:"ranks"`
	Warnings []string             `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func runCategories(cmd *cobra.Command, args []string) error {
	column, _ := cmd.Flags().GetString("column")
	format, _ := cmd.Flags().GetString("output")

	cfg := loadConfig().Categories
	report := categories.TopCategoriesBy(cmd.Context(), cfg, column, log)

	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
	return writeOutput(cmd.OutOrStdout(), format, report.String(), categoryReport{
		Year:     report.Year,
		Column:   report.Column,
		Ranks:    report.Ranks,
		Warnings: report.WarningMessages(),
	})
}
