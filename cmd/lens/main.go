// cmd/lens — command-line access review for directory exports.
//
// Scores a CSV export of user accounts locally (no server required),
// prints the population summary, and writes the annotated report.
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/accesslens/accesslens/internal/dataset"
	"github.com/accesslens/accesslens/internal/risk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden by goreleaser via -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile    string
	outputPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lens",
	Short: "AccessLens CLI",
	Long: `lens scores directory/identity export records for access review.

It reads a CSV export of users (admin console / reports), assigns each
record a risk score and category from login recency, access level, and
role, and produces a population summary for prioritisation.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(home + "/.accesslens")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("lens")
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		if outputPath == "" {
			outputPath = viper.GetString("output")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.accesslens/config.yaml)")
	rootCmd.AddCommand(scoreCmd, summaryCmd, versionCmd)
	scoreCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the annotated CSV report to this path (default stdout)")
}

var scoreCmd = &cobra.Command{
	Use:   "score <input.csv>",
	Short: "Score an export and write the annotated report",
	Long: `Scores every record in the export and writes the annotated CSV to the
--output path, or to stdout when no path is given. The population summary
always follows — on stderr when the report goes to stdout, so the CSV
stream stays machine-parseable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScore(args[0], outputPath, os.Stdout, os.Stderr)
	},
}

func runScore(inputPath, outputPath string, stdout, stderr io.Writer) error {
	ds, err := readExport(inputPath)
	if err != nil {
		return err
	}

	scored := risk.Annotate(ds)

	if outputPath == "" {
		if err := dataset.WriteCSV(stdout, scored); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printSummary(stderr, risk.Summarize(scored))
		return nil
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := dataset.WriteCSV(f, scored); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Fprintf(stdout, "report written to %s (%d records)\n\n", outputPath, scored.Len())
	printSummary(stdout, risk.Summarize(scored))
	return nil
}

var summaryCmd = &cobra.Command{
	Use:   "summary <input.csv>",
	Short: "Print the population risk summary for an export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := readExport(args[0])
		if err != nil {
			return err
		}
		printSummary(os.Stdout, risk.Summarize(ds))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lens version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lens", version)
	},
}

func readExport(path string) (dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	ds, err := dataset.ReadCSV(f)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("parse export: %w", err)
	}
	return ds, nil
}

func printSummary(out io.Writer, s risk.Summary) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total users\t%d\n", s.TotalUsers)
	fmt.Fprintf(w, "average score\t%.1f\n", s.AvgScore)
	fmt.Fprintf(w, "low\t%d\n", s.LowCount)
	fmt.Fprintf(w, "medium\t%d\n", s.MediumCount)
	fmt.Fprintf(w, "high\t%d\n", s.HighCount)
	fmt.Fprintf(w, "critical\t%d\n", s.CriticalCount)
	fmt.Fprintf(w, "high risk total\t%d\n", s.HighRiskTotal)
	w.Flush()
}
