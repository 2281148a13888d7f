package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/taxsavvy/internal/breakeven"
	"github.com/rgehrsitz/taxsavvy/internal/calculation"
	"github.com/rgehrsitz/taxsavvy/internal/compare"
	"github.com/rgehrsitz/taxsavvy/internal/config"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/rgehrsitz/taxsavvy/internal/inr"
	"github.com/rgehrsitz/taxsavvy/internal/output"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxsavvy %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:           "taxsavvy",
	Short:         "Indian income tax regime calculator",
	Long:          "Compares old and new regime income tax liability and suggests unused deductions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// newEngine builds a comparison engine from the persistent --slabs and --debug flags
func newEngine(cmd *cobra.Command) (*compare.CompareEngine, error) {
	slabsPath, _ := cmd.Flags().GetString("slabs")
	debugMode, _ := cmd.Flags().GetBool("debug")

	var logger config.Logger
	calc := calculation.NewCalculationEngine()
	if debugMode {
		logger = simpleCLILogger{}
		calc.SetLogger(simpleCLILogger{})
	}

	repo, err := config.NewSlabRepository(slabsPath, logger)
	if err != nil {
		return nil, err
	}
	return compare.NewCompareEngine(calc, repo), nil
}

// runComparison loads a profile and compares both regimes for it
func runComparison(cmd *cobra.Command, profilePath string) (*domain.TaxReport, error) {
	profile, err := config.NewInputParser().LoadProfile(profilePath)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cmd)
	if err != nil {
		return nil, err
	}
	return engine.Compare(cmd.Context(), *profile)
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [profile-file]",
	Short: "Compare old and new regime tax for a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")

		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			return fmt.Errorf("unknown format %q (available: %s)", outputFormat, strings.Join(output.AvailableFormatterNames(), ", "))
		}

		report, err := runComparison(cmd, args[0])
		if err != nil {
			return err
		}

		data, err := f.Format(report)
		if err != nil {
			return err
		}
		if outputFile != "" {
			if err := os.WriteFile(outputFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputFile)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [profile-file]",
	Short: "List unused deductions ranked by tax saving",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runComparison(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(report.Suggestions) == 0 {
			fmt.Fprintln(out, "Every deduction is already fully used.")
			return nil
		}
		for i, s := range report.Suggestions {
			fmt.Fprintf(out, "%d. [%s] %s\n", i+1, s.Section, s.Action)
			if s.PotentialSaving.IsPositive() {
				fmt.Fprintf(out, "   Potential saving: %s\n", inr.Format(s.PotentialSaving))
			}
		}
		return nil
	},
}

var breakEvenCmd = &cobra.Command{
	Use:   "break-even [profile-file]",
	Short: "Find the extra deduction at which the old regime becomes cheaper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, _ := cmd.Flags().GetString("format")

		profile, err := config.NewInputParser().LoadProfile(args[0])
		if err != nil {
			return err
		}
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		oldTable, newTable, err := engine.Slabs.Tables(*profile)
		if err != nil {
			return err
		}

		result, err := breakeven.NewDefaultSolver(engine.CalcEngine).Solve(cmd.Context(), *profile, oldTable, newTable)
		if err != nil {
			return err
		}

		switch outputFormat {
		case "json":
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		case "table", "console":
			fmt.Fprint(cmd.OutOrStdout(), (&breakeven.TableFormatter{}).Format(result))
		default:
			return fmt.Errorf("unknown format %q (available: console, json)", outputFormat)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [profile-file]",
	Short: "Validate a profile and the slab document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.NewInputParser().LoadProfile(args[0]); err != nil {
			return err
		}
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile %s is valid\n", args[0])
		if path := engine.Slabs.Path(); path != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Slab document %s is valid (%s)\n", path, strings.Join(engine.Slabs.Years(), ", "))
		}
		return nil
	},
}

var slabsCmd = &cobra.Command{
	Use:   "slabs [assessment-year]",
	Short: "Show loaded slab tables",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		years := engine.Slabs.Years()

		if len(args) == 0 {
			fmt.Fprintln(out, "Assessment years:")
			for _, y := range years {
				fmt.Fprintf(out, "  %s\n", y)
			}
			return nil
		}

		year := args[0]
		if !contains(years, year) {
			return fmt.Errorf("no slab tables for assessment year %s", year)
		}
		age, _ := cmd.Flags().GetInt("age")
		regimeFlag, _ := cmd.Flags().GetString("regime")

		regimes := []domain.Regime{domain.OldRegime, domain.NewRegime}
		if regimeFlag != "" {
			regime, err := domain.ParseRegime(regimeFlag)
			if err != nil {
				return err
			}
			regimes = []domain.Regime{regime}
		}

		for _, regime := range regimes {
			table, err := engine.Slabs.Lookup(year, regime, age)
			if err != nil {
				return err
			}
			printSlabTable(cmd, table)
		}
		return nil
	},
}

func printSlabTable(cmd *cobra.Command, t domain.SlabTable) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s - AY %s (%s)\n", output.RegimeName(t.Regime), t.AssessmentYear, t.AgeBand)

	lower := inr.Format(decimal.Zero)
	for _, s := range t.Slabs {
		upper := "and above"
		if !s.Unbounded() {
			upper = "to " + inr.Format(s.UpperLimit.Decimal)
		}
		fmt.Fprintf(out, "  %-16s %-20s %s\n", lower, upper, inr.Percent(s.Rate))
		if !s.Unbounded() {
			lower = inr.Format(s.UpperLimit.Decimal)
		}
	}
	fmt.Fprintf(out, "  Rebate 87A: up to %s at income up to %s\n",
		inr.Format(t.Rebate.MaxAmount), inr.Format(t.Rebate.IncomeCeiling))
	fmt.Fprintf(out, "  Standard deduction: %s\n", inr.Format(t.StandardDeduction))
	fmt.Fprintf(out, "  Cess: %s\n", inr.Percent(t.CessRate))
	for _, b := range t.Surcharge {
		fmt.Fprintf(out, "  Surcharge above %s: %s\n", inr.Format(b.Threshold), inr.Percent(b.Rate))
	}
	fmt.Fprintln(out)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().String("slabs", "", "Path to a slab document (default: built-in tables)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	calculateCmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")

	breakEvenCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")

	slabsCmd.Flags().String("regime", "", "Only show one regime (old, new)")
	slabsCmd.Flags().Int("age", 0, "Taxpayer age used to pick the old regime age band")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(breakEvenCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(slabsCmd)
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
