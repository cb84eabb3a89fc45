package models

import (
	"github.com/creasty/defaults"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultSignal is shown for positions that carry no signal.
const DefaultSignal = "NEUTRAL"

// Positions maps ticker to Position, preserving the order the engine sent them in.
type Positions = orderedmap.OrderedMap[string, Position]

// NewPositions creates an empty ordered positions map.
func NewPositions() *Positions {
	return orderedmap.New[string, Position]()
}

// PortfolioResult is the portfolio snapshot returned by the analysis engine.
type PortfolioResult struct {
	Cash       float64    `json:"cash"`
	TotalValue float64    `json:"total_value"`
	Positions  *Positions `json:"positions,omitempty"`
}

// Len returns the number of positions, treating a missing map as empty.
func (p *PortfolioResult) Len() int {
	if p == nil || p.Positions == nil {
		return 0
	}
	return p.Positions.Len()
}

// Position is a single ticker's holding within a portfolio result.
type Position struct {
	Shares               float64 `json:"shares"`
	EntryPrice           float64 `json:"entry_price"`
	CurrentPrice         float64 `json:"current_price"`
	UnrealizedPnLPercent float64 `json:"unrealized_pnl_percent"`
	Signal               string  `json:"signal" default:"NEUTRAL"`
}

// WithDefaults returns a copy of p with absent optional fields filled in.
func (p Position) WithDefaults() Position {
	if err := defaults.Set(&p); err != nil {
		// Tags are static; a failure here is a programming error.
		panic(err)
	}
	return p
}
