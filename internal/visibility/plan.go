package visibility

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-skywindow/internal/intervals"
	"github.com/litescript/ls-skywindow/internal/telescope"
)

// Phase classifies an interval relative to the current time.
type Phase int

const (
	PhasePast   Phase = iota // Interval has ended
	PhaseNow                 // Currently in progress
	PhaseNext                // Next upcoming interval
	PhaseFuture              // Upcoming interval (not next)
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePast:
		return "PAST"
	case PhaseNow:
		return "NOW"
	case PhaseNext:
		return "NEXT"
	case PhaseFuture:
		return "FUTURE"
	default:
		return "?"
	}
}

// Slot is an interval tagged with its phase.
type Slot struct {
	intervals.Interval
	Phase Phase
}

// Plan is a telescope's intervals classified against a reference time.
type Plan struct {
	Telescope   string
	GeneratedAt time.Time
	Slots       []Slot
}

// NewPlan classifies sorted, disjoint intervals against now.
func NewPlan(telescopeID string, ivs []intervals.Interval, now time.Time) Plan {
	p := Plan{Telescope: telescopeID, GeneratedAt: now, Slots: make([]Slot, len(ivs))}
	foundNext := false

	for i, iv := range ivs {
		s := Slot{Interval: iv}
		switch {
		case !now.Before(iv.End):
			s.Phase = PhasePast
		case iv.Contains(now):
			s.Phase = PhaseNow
		case !foundNext:
			s.Phase = PhaseNext
			foundNext = true
		default:
			s.Phase = PhaseFuture
		}
		p.Slots[i] = s
	}
	return p
}

// Current returns the slot in progress, or nil.
func (p Plan) Current() *Slot {
	for i := range p.Slots {
		if p.Slots[i].Phase == PhaseNow {
			return &p.Slots[i]
		}
	}
	return nil
}

// Next returns the next upcoming slot, or nil.
func (p Plan) Next() *Slot {
	for i := range p.Slots {
		if p.Slots[i].Phase == PhaseNext {
			return &p.Slots[i]
		}
	}
	return nil
}

// Twilight lookback and lookahead around the reference time.
const (
	twilightLookback  = 24 * time.Hour
	twilightLookahead = 48 * time.Hour
)

// NextTwilight returns the dark intervals of interest at tel around now:
// when now falls inside a dark interval, that interval and the following
// one; otherwise just the next one.
func NextTwilight(ctx context.Context, e *Engine, tel telescope.Telescope, now time.Time) ([]intervals.Interval, error) {
	dark, err := e.DarkIntervals(ctx, tel, now.Add(-twilightLookback), now.Add(twilightLookahead))
	if err != nil {
		return nil, fmt.Errorf("next twilight: %w", err)
	}

	plan := NewPlan(tel.ID, dark, now)
	var out []intervals.Interval
	for _, s := range plan.Slots {
		if s.Phase == PhasePast {
			continue
		}
		out = append(out, s.Interval)
		if s.Phase != PhaseNow {
			break
		}
	}
	return out, nil
}
