package engine

import (
	"traderscope/ledger"
	"traderscope/levels"
	"traderscope/zone"
)

// Signal is a trading rule's verdict for one tick.
type Signal int

const (
	Hold Signal = iota
	EnterLong
	EnterShort
	Exit
)

func (s Signal) String() string {
	switch s {
	case EnterLong:
		return "ENTER_LONG"
	case EnterShort:
		return "ENTER_SHORT"
	case Exit:
		return "EXIT"
	default:
		return "HOLD"
	}
}

// Rule is the pluggable entry/exit policy. Implementations see the
// current classification, ladder, price and the symbol's open trade (nil
// when flat) and answer with a Signal. A learned-threshold rule can be
// substituted here without touching the engine.
type Rule interface {
	Evaluate(da zone.DigitAnalysis, ladder levels.Ladder, price float64, open *ledger.Trade) Signal
}

// ZoneRule enters on configured zone names: long when the price sits in
// one of LongZones, short in one of ShortZones. Exits are left to the
// engine's stop/target checks.
type ZoneRule struct {
	LongZones  []string
	ShortZones []string
}

// NewZoneRule returns the default rule: long on confirmation and
// acceleration, short on major rejection.
func NewZoneRule() *ZoneRule {
	return &ZoneRule{
		LongZones:  []string{"confirmation", "acceleration"},
		ShortZones: []string{"major rejection"},
	}
}

func (r *ZoneRule) Evaluate(da zone.DigitAnalysis, ladder levels.Ladder, price float64, open *ledger.Trade) Signal {
	if open != nil {
		return Hold
	}
	for _, name := range r.LongZones {
		if da.Zone.Name == name {
			return EnterLong
		}
	}
	for _, name := range r.ShortZones {
		if da.Zone.Name == name {
			return EnterShort
		}
	}
	return Hold
}
