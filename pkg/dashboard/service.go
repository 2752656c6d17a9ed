// Package dashboard turns a session selection into the tables and charts shown by
// the injuries dashboard
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethpandaops/injuryboard/pkg/aggregate"
	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/observability"
	"github.com/ethpandaops/injuryboard/pkg/period"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/ethpandaops/injuryboard/pkg/table"
	"github.com/sirupsen/logrus"
)

// Fetcher returns the rows of a literal query, usually through the query cache
type Fetcher interface {
	Fetch(ctx context.Context, query string) (*clickhouse.Rows, error)
}

// Service runs one pass of the pipeline per call. It holds no state of its own.
type Service struct {
	log     logrus.FieldLogger
	fetcher Fetcher
	queries *injuries.Queries
}

// NewService creates a dashboard service
func NewService(log logrus.FieldLogger, fetcher Fetcher, queries *injuries.Queries) *Service {
	return &Service{
		log:     log.WithField("component", "dashboard"),
		fetcher: fetcher,
		queries: queries,
	}
}

// Table fetches query q and materializes it, dropping duplicate rows when
// distinct is set. Fetch errors are returned unchanged.
func (s *Service) Table(ctx context.Context, q injuries.Query, distinct bool) (*table.Table, error) {
	text, err := s.queries.Text(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.fetcher.Fetch(ctx, text)
	if err != nil {
		observability.RecordView(string(q), "error")
		return nil, err
	}

	t := table.Materialize(rows.Records, rows.ColumnNames()...)
	if distinct {
		t = t.Distinct()
	}

	observability.RecordView(string(q), "ok")

	return t, nil
}

// View is the injuries view for a selection: the full table when ungrouped,
// otherwise the aggregates of the active grouping.
type View struct {
	Selection session.Selection          `json:"selection"`
	Title     string                     `json:"title"`
	Table     *TableView                 `json:"table,omitempty"`
	Groups    []aggregate.GroupAggregate `json:"groups,omitempty"`
}

// View computes the injuries view for sel
func (s *Service) View(ctx context.Context, sel session.Selection) (*View, error) {
	t, err := s.Table(ctx, injuries.QueryInjuries, false)
	if err != nil {
		return nil, err
	}

	dim, grouped := sel.Grouping.Dimension()
	if !grouped {
		tv := NewTableView(TableTitle(injuries.QueryInjuries), t)

		return &View{Selection: sel, Title: tv.Title, Table: &tv}, nil
	}

	groups, err := aggregate.Aggregate(t, dim)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate injuries: %w", err)
	}

	observability.RecordRowsProcessed("aggregate", t.Len())

	s.log.WithFields(logrus.Fields{
		"dimension": dim,
		"rows":      t.Len(),
		"groups":    len(groups),
	}).Debug("Aggregated injuries")

	return &View{Selection: sel, Title: GroupTitle(dim), Groups: groups}, nil
}

// PeriodView is the time-series view for a selection. Empty is set, with a
// message, when no injury lies inside the selected range.
type PeriodView struct {
	Selection session.Selection    `json:"selection"`
	Chart     ChartSpec            `json:"chart"`
	Counts    []period.PeriodCount `json:"counts"`
	Empty     bool                 `json:"empty"`
	Message   string               `json:"message,omitempty"`
}

// Periods computes the period counts for sel
func (s *Service) Periods(ctx context.Context, sel session.Selection) (*PeriodView, error) {
	t, err := s.Table(ctx, injuries.QueryInjuries, false)
	if err != nil {
		return nil, err
	}

	view := &PeriodView{
		Selection: sel,
		Chart:     PeriodChart(sel.Granularity),
		Counts:    []period.PeriodCount{},
	}

	observability.RecordRowsProcessed("bucketize", t.Len())

	counts, err := period.Bucketize(t, sel.Start, sel.End, sel.Granularity)
	if errors.Is(err, period.ErrEmptyResult) {
		observability.RecordView("periods", "empty")

		view.Empty = true
		view.Message = NoDataMessage

		return view, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to bucketize injuries: %w", err)
	}

	observability.RecordView("periods", "ok")

	view.Counts = counts

	return view, nil
}
