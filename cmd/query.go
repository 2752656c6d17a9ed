package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/aggregate"
	"github.com/ethpandaops/injuryboard/pkg/dashboard"
	"github.com/ethpandaops/injuryboard/pkg/engine"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/period"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/ethpandaops/injuryboard/pkg/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrGroupedPeriods is returned when --group-by and --periods are combined
var ErrGroupedPeriods = errors.New("--group-by and --periods cannot be combined")

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	queryName        string
	queryGroupBy     string
	queryDistinct    bool
	queryPeriods     bool
	queryGranularity string
	queryStart       string
	queryEnd         string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a dashboard query and print the result",
	Long: `Runs one of the fixed dashboard queries (injuries, preview, teams) and prints
the table, the aggregates of a grouping, or the injury counts per period.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Keep client logs out of the printed table unless asked for
		if !cmd.Flags().Changed("log-level") {
			logger.SetLevel(logrus.ErrorLevel)
		}
		return nil
	},
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryName, "query", string(injuries.QueryInjuries), "query to run (injuries, preview, teams)")
	queryCmd.Flags().StringVar(&queryGroupBy, "group-by", "", "aggregate the injuries table by one of: "+dimensionNames())
	queryCmd.Flags().BoolVar(&queryDistinct, "distinct", false, "drop duplicate rows")
	queryCmd.Flags().BoolVar(&queryPeriods, "periods", false, "print injury counts per period instead of rows")
	queryCmd.Flags().StringVar(&queryGranularity, "granularity", string(period.Weekly), "period size (weekly, monthly)")
	queryCmd.Flags().StringVar(&queryStart, "start", session.DefaultStart.Format(injuries.DateLayout), "first day of the period range")
	queryCmd.Flags().StringVar(&queryEnd, "end", session.DefaultEnd.Format(injuries.DateLayout), "last day of the period range")
}

func runQuery(cmd *cobra.Command, _ []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true

	if queryGroupBy != "" && queryPeriods {
		return ErrGroupedPeriods
	}

	config, err := LoadConfig(cfgFile, envFile)
	if err != nil {
		return err
	}

	svc, err := engine.NewService(logger, config)
	if err != nil {
		return err
	}

	defer func() {
		if err := svc.Client().Stop(); err != nil {
			logger.WithError(err).Debug("Failed to stop ClickHouse client")
		}
	}()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	d := svc.Dashboard()

	switch {
	case queryPeriods:
		sel, err := periodSelection(queryGranularity, queryStart, queryEnd)
		if err != nil {
			return err
		}

		view, err := d.Periods(ctx, sel)
		if err != nil {
			return err
		}

		printPeriods(out, view)
	case queryGroupBy != "":
		grouping, err := session.ParseGrouping(queryGroupBy)
		if err != nil {
			return err
		}

		sel := session.DefaultSelection()
		sel.Toggle(grouping)

		view, err := d.View(ctx, sel)
		if err != nil {
			return err
		}

		printGroups(out, view.Groups)
	default:
		q, err := injuries.ParseQuery(queryName)
		if err != nil {
			return err
		}

		t, err := d.Table(ctx, q, queryDistinct)
		if err != nil {
			return err
		}

		printTable(out, t)
	}

	return nil
}

func periodSelection(granularity, start, end string) (session.Selection, error) {
	sel := session.DefaultSelection()

	g, err := period.ParseGranularity(granularity)
	if err != nil {
		return sel, err
	}

	if err := sel.SetGranularity(g); err != nil {
		return sel, err
	}

	startDate, err := time.Parse(injuries.DateLayout, start)
	if err != nil {
		return sel, fmt.Errorf("invalid --start: %w", err)
	}

	endDate, err := time.Parse(injuries.DateLayout, end)
	if err != nil {
		return sel, fmt.Errorf("invalid --end: %w", err)
	}

	return sel, sel.SetRange(startDate, endDate)
}

func printTable(out io.Writer, t *table.Table) {
	view := dashboard.NewTableView("", t)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.ToUpper(strings.Join(t.ColumnNames(), "\t")))

	for _, cells := range view.Rows {
		values := make([]string, len(cells))
		for i, v := range cells {
			values[i] = formatCell(v)
		}

		_, _ = fmt.Fprintln(w, strings.Join(values, "\t"))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%d rows\n", view.Total)
}

func printGroups(out io.Writer, groups []aggregate.GroupAggregate) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GROUP\tINJURIES\tGAMES MISSED")

	for _, g := range groups {
		key := g.GroupKey
		if g.Null {
			key = "null"
		}

		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", key, g.InjuryCount, g.GamesMissedSum)
	}
	_ = w.Flush()
}

func printPeriods(out io.Writer, view *dashboard.PeriodView) {
	if view.Empty {
		_, _ = fmt.Fprintln(out, view.Message)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\tINJURIES\n", strings.ToUpper(view.Chart.X.Title))

	for _, c := range view.Counts {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", c.PeriodStart.Format(injuries.DateLayout), c.InjuryCount)
	}
	_ = w.Flush()
}

func formatCell(v interface{}) string {
	if v == nil {
		return "null"
	}

	return fmt.Sprint(v)
}

func dimensionNames() string {
	dims := aggregate.Dimensions()

	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = string(d)
	}

	return strings.Join(names, ", ")
}
