package aggregate

import (
	"errors"
	"fmt"

	"github.com/ethpandaops/injuryboard/pkg/injuries"
)

// ErrUnknownDimension is returned for a grouping dimension that is not supported
var ErrUnknownDimension = errors.New("unknown grouping dimension")

// Dimension is a categorical column rows can be grouped by
type Dimension string

// Supported dimensions
const (
	DimensionTeam   Dimension = "team"
	DimensionPlayer Dimension = "player"
	DimensionInjury Dimension = "injury"
)

// Dimensions lists the supported dimensions in display order
func Dimensions() []Dimension {
	return []Dimension{DimensionTeam, DimensionPlayer, DimensionInjury}
}

// ParseDimension validates s as a dimension
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	if _, err := d.Column(); err != nil {
		return "", err
	}

	return d, nil
}

// Column returns the table column backing the dimension
func (d Dimension) Column() (string, error) {
	switch d {
	case DimensionTeam:
		return injuries.ColumnTeamName, nil
	case DimensionPlayer:
		return injuries.ColumnPlayerName, nil
	case DimensionInjury:
		return injuries.ColumnInjury, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, string(d))
	}
}
