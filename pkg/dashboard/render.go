package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethpandaops/injuryboard/pkg/aggregate"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/period"
	"github.com/ethpandaops/injuryboard/pkg/table"
)

// NoDataMessage is shown instead of a chart when the selection has no rows
const NoDataMessage = "No data for this selection"

// TableView is the wire form of a table handed to the table widget
type TableView struct {
	Title   string          `json:"title"`
	Columns []table.Column  `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
	Total   int             `json:"total"`
}

// NewTableView renders t with date cells as YYYY-MM-DD and timestamps as RFC 3339
func NewTableView(title string, t *table.Table) TableView {
	columns := t.Columns()
	rows := t.Rows()

	for _, cells := range rows {
		for i, v := range cells {
			ts, ok := v.(time.Time)
			if !ok {
				continue
			}

			if columns[i].Kind == table.KindDate {
				cells[i] = ts.Format(injuries.DateLayout)
			} else {
				cells[i] = ts.Format(time.RFC3339)
			}
		}
	}

	return TableView{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Total:   len(rows),
	}
}

// Axis is one axis of a chart specification
type Axis struct {
	Field string `json:"field"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ChartSpec is the declarative chart handed to the rendering surface
type ChartSpec struct {
	Title string `json:"title"`
	Mark  string `json:"mark"`
	X     Axis   `json:"x"`
	Y     Axis   `json:"y"`
}

// PeriodChart returns the chart specification for period counts
func PeriodChart(g period.Granularity) ChartSpec {
	return ChartSpec{
		Title: fmt.Sprintf("Injuries per %s", strings.ToLower(g.Label())),
		Mark:  "line",
		X: Axis{
			Field: "period_start_date",
			Title: fmt.Sprintf("%s starting", g.Label()),
			Type:  "temporal",
		},
		Y: Axis{
			Field: "injury_count",
			Title: "Injuries",
			Type:  "quantitative",
		},
	}
}

// TableTitle returns the header shown above a query's table
func TableTitle(q injuries.Query) string {
	switch q {
	case injuries.QueryPreview:
		return "Injuries preview"
	case injuries.QueryTeams:
		return "Injuries with teams"
	default:
		return "Injuries table"
	}
}

// GroupTitle returns the header shown above a grouped view
func GroupTitle(d aggregate.Dimension) string {
	return fmt.Sprintf("Injuries by %s", d)
}
