package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"fire-server/src/categories"
	"fire-server/src/config"
	"fire-server/src/format"
	"fire-server/src/migration"
	"fire-server/src/models"
	"fire-server/src/months"
	"fire-server/src/projection"

	"github.com/spf13/cobra"
)

var (
	flagDataFile   string
	flagGoalsFile  string
	flagLocale     string
	flagTarget     float64
	flagReturn     float64
	flagRate       float64
	flagWriteGoals bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project investments from an exported months file",
	Long:  "Reads a JSON export of months and prints the year by year projection towards the target.",
	RunE:  runProject,
}

func init() {
	projectCmd.Flags().StringVar(&flagDataFile, "data", "", "Months export (JSON array)")
	projectCmd.Flags().StringVar(&flagGoalsFile, "goals", "", "Goals file (TOML); defaults apply when missing")
	projectCmd.Flags().StringVar(&flagLocale, "locale", string(categories.DefaultLocale), "Category and number locale (es, en)")
	projectCmd.Flags().Float64Var(&flagTarget, "target", 0, "Override the target investment")
	projectCmd.Flags().Float64Var(&flagReturn, "return", 0, "Override the expected annual return (%)")
	projectCmd.Flags().Float64Var(&flagRate, "rate", -1, "Override the investment rate (% of net income)")
	projectCmd.Flags().BoolVar(&flagWriteGoals, "write-goals", false, "Save the effective goals back to --goals")
	_ = projectCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	goals := models.DefaultUserConfig()
	if flagGoalsFile != "" {
		var err error
		goals, err = config.LoadGoals(flagGoalsFile)
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("target") {
		goals.TargetInvestment = flagTarget
	}
	if cmd.Flags().Changed("return") {
		goals.ExpectedReturn = flagReturn
	}
	if cmd.Flags().Changed("rate") {
		goals.InvestmentRate = flagRate
	}
	if flagWriteGoals {
		if flagGoalsFile == "" {
			return errors.New("--write-goals needs --goals")
		}
		if err := config.SaveGoals(flagGoalsFile, goals); err != nil {
			return err
		}
	}

	records, err := readMonths(flagDataFile)
	if err != nil {
		return err
	}
	locale := categories.ParseLocale(flagLocale)
	records, _, err = migration.Normalize(months.Sort(records), locale)
	if err != nil {
		return err
	}
	records = months.Fill(records, categories.ForLocale(locale))

	plan := projection.BuildPlan(records, goals, categories.ForLocale(locale), time.Now())
	return printPlan(cmd.OutOrStdout(), plan, locale)
}

func readMonths(path string) ([]models.MonthRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading months: %w", err)
	}
	var records []models.MonthRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing months: %w", err)
	}
	if err := months.Validate(months.Sort(records)); err != nil {
		return nil, err
	}
	return records, nil
}

func printPlan(out io.Writer, plan projection.Plan, locale categories.Locale) error {
	money := func(v float64) string { return format.Currency(v, locale, nil) }

	fmt.Fprintf(out, "Invested now:   %s\n", money(plan.CurrentInvested))
	fmt.Fprintf(out, "Monthly saving: %s (%s)\n", money(plan.Contribution.Monthly), plan.Contribution.Source)
	fmt.Fprintf(out, "Target:         %s by %d at %s\n", money(plan.Target), plan.TargetYear, format.Percent(plan.ExpectedReturn, locale))
	fmt.Fprintf(out, "Coast number:   %s\n", money(plan.CoastNumber))
	if plan.ReachedYear != nil {
		status := "behind target year"
		if plan.OnTrack {
			status = "on track"
		}
		fmt.Fprintf(out, "Reached in:     %d (%s)\n\n", *plan.ReachedYear, status)
	} else {
		fmt.Fprintf(out, "Reached in:     not within %d years\n\n", projection.DefaultMaxYears)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Year\tBalance\tTarget\t")
	for _, p := range plan.Series {
		fmt.Fprintf(tw, "%d\t%s\t%s\t\n", p.Year, money(p.Amount), money(p.Target))
	}
	return tw.Flush()
}
