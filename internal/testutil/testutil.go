// Package testutil provides test utilities for injuryboard, including:
//   - an in-process fake of the ClickHouse HTTP interface (clickhouse.go)
//   - injury fixtures shaped like the dashboard queries' results (fixtures.go)
//
// None of the helpers need Docker or a real warehouse.
package testutil

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger that discards output unless the test is verbose
func NewLogger(t *testing.T) *logrus.Logger {
	t.Helper()

	log := logrus.New()
	if !testing.Verbose() {
		log.SetOutput(io.Discard)
	}

	log.SetLevel(logrus.DebugLevel)

	return log
}
