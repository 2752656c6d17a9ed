package injuries

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Static errors for query configuration
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidLimit      = errors.New("preview limit must be positive")
	ErrUnknownQuery      = errors.New("unknown query")
)

// Query names one of the fixed dashboard queries
type Query string

// The fixed queries. Their text only depends on configuration, so each renders
// to a single literal string for the life of the process.
const (
	// QueryInjuries joins injuries with teams and players
	QueryInjuries Query = "injuries"
	// QueryPreview reads the first rows of the raw injuries table
	QueryPreview Query = "preview"
	// QueryTeams joins injuries with teams, exposing the team as team_name
	QueryTeams Query = "teams"
)

// AllQueries lists the fixed queries in display order
func AllQueries() []Query {
	return []Query{QueryInjuries, QueryPreview, QueryTeams}
}

// ParseQuery validates s as a query name
func ParseQuery(s string) (Query, error) {
	for _, q := range AllQueries() {
		if string(q) == s {
			return q, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownQuery, s)
}

// TablesConfig names the warehouse tables read by the queries
type TablesConfig struct {
	Injuries string `yaml:"injuries" default:"injuries_complete"`
	Teams    string `yaml:"teams" default:"teams_serie_a"`
	Players  string `yaml:"players" default:"players_serie_a"`
	Preview  string `yaml:"preview" default:"injuries_serie_a"`
}

// Config configures query rendering
type Config struct {
	Tables       TablesConfig `yaml:"tables"`
	PreviewLimit int          `yaml:"previewLimit" default:"15"`
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks table names and the preview limit
func (c *Config) Validate() error {
	for _, name := range []string{c.Tables.Injuries, c.Tables.Teams, c.Tables.Players, c.Tables.Preview} {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, name)
		}
	}

	if c.PreviewLimit <= 0 {
		return ErrInvalidLimit
	}

	return nil
}

const injuriesTemplate = `
SELECT
  COALESCE(t2.Team_name, {{ .nationalTeam | squote }}) AS team_name,
  t3.Player_name AS player_name,
  t1.Injury AS injury,
  t1.Start_date AS start_date,
  t1.End_date AS end_date,
  t1.Games_missed AS games_missed
FROM {{ .database }}.{{ .tables.Injuries }} AS t1
LEFT JOIN {{ .database }}.{{ .tables.Teams }} AS t2 ON t1.Team_ID = t2.Team_ID
LEFT JOIN {{ .database }}.{{ .tables.Players }} AS t3 ON t1.Player_ID = t3.Player_ID
SETTINGS join_use_nulls = 1
`

const previewTemplate = `
SELECT * FROM {{ .database }}.{{ .tables.Preview }} LIMIT {{ .previewLimit }}
`

const teamsTemplate = `
SELECT
  COALESCE(t2.Team_name, {{ .nationalTeam | squote }}) AS team_name,
  t1.Player_ID AS player_id,
  t1.Injury AS injury,
  t1.Start_date AS start_date,
  t1.End_date AS end_date,
  t1.Games_missed AS games_missed
FROM {{ .database }}.{{ .tables.Injuries }} AS t1
LEFT JOIN {{ .database }}.{{ .tables.Teams }} AS t2 ON t1.Team_ID = t2.Team_ID
SETTINGS join_use_nulls = 1
`

// Queries holds the rendered text of every fixed query
type Queries struct {
	text map[Query]string
}

// NewQueries renders the fixed queries against database
func NewQueries(database string, cfg *Config) (*Queries, error) {
	if !identifierPattern.MatchString(database) {
		return nil, fmt.Errorf("%w: database %q", ErrInvalidIdentifier, database)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	variables := map[string]interface{}{
		"database":     database,
		"tables":       cfg.Tables,
		"previewLimit": cfg.PreviewLimit,
		"nationalTeam": NationalTeam,
	}

	templates := map[Query]string{
		QueryInjuries: injuriesTemplate,
		QueryPreview:  previewTemplate,
		QueryTeams:    teamsTemplate,
	}

	q := &Queries{text: make(map[Query]string, len(templates))}

	for name, content := range templates {
		rendered, err := render(string(name), content, variables)
		if err != nil {
			return nil, err
		}

		q.text[name] = rendered
	}

	return q, nil
}

// Text returns the literal SQL of name
func (q *Queries) Text(name Query) (string, error) {
	text, ok := q.text[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuery, string(name))
	}

	return text, nil
}

func render(name, content string, variables map[string]interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s query template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", fmt.Errorf("failed to execute %s query template: %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
