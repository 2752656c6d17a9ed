package cmd

import (
	"fmt"

	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Print the SQL of the dashboard queries",
	Long:  `Renders the fixed dashboard queries against the configured database and tables without contacting the warehouse.`,
	RunE:  runQueries,
}

func init() {
	rootCmd.AddCommand(queriesCmd)
}

func runQueries(cmd *cobra.Command, _ []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true

	config, err := LoadConfig(cfgFile, envFile)
	if err != nil {
		return err
	}

	queries, err := renderQueries(&config.ClickHouse, &config.Queries)
	if err != nil {
		return err
	}

	for _, q := range injuries.AllQueries() {
		text, err := queries.Text(q)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n%s;\n\n", q, text)
	}

	return nil
}

func renderQueries(ch *clickhouse.Config, cfg *injuries.Config) (*injuries.Queries, error) {
	return injuries.NewQueries(ch.MapDatabase(ch.Database), cfg)
}
