// Package timewindow resolves preset keywords and explicit date strings into
// concrete query boundaries. Boundaries follow the inclusive-start,
// exclusive-end convention; a zero time means unbounded on that side.
package timewindow

import (
	"time"

	"dime/internal/core"
)

const (
	PresetCurrentMonth = "current_month"
	PresetToday        = "today"
	PresetLastMonth    = "last_month"
)

type Window struct {
	Start time.Time // zero = unbounded
	End   time.Time // zero = unbounded; exclusive when set
	Label string
}

// Resolve turns a preset keyword or an explicit start/end pair into a
// Window, evaluated relative to now.
//
// When either raw string is present the window is a custom range: each side
// is parsed independently, unparseable input is treated as absent, and the
// label echoes the raw strings rather than the parsed values. Otherwise the
// preset is resolved; an unrecognized preset gets current-month boundaries
// but keeps its original text as the label.
func Resolve(preset, startRaw, endRaw string, now time.Time) Window {
	if startRaw != "" || endRaw != "" {
		return resolveCustom(startRaw, endRaw)
	}
	if preset == "" {
		preset = PresetCurrentMonth
	}
	return resolvePreset(preset, now)
}

func resolveCustom(startRaw, endRaw string) Window {
	var w Window
	if startRaw != "" {
		if t, err := core.ParseTimestamp(startRaw); err == nil {
			w.Start = t
		}
	}
	if endRaw != "" {
		if t, err := core.ParseTimestamp(endRaw); err == nil {
			w.End = t
		}
	}

	startLabel := startRaw
	if startLabel == "" {
		startLabel = "..."
	}
	endLabel := endRaw
	if endLabel == "" {
		endLabel = "now"
	}
	w.Label = startLabel + " to " + endLabel
	return w
}

func resolvePreset(preset string, now time.Time) Window {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch preset {
	case PresetCurrentMonth:
		return Window{Start: firstOfMonth, Label: "Current Month"}
	case PresetToday:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return Window{Start: midnight, Label: "Today"}
	case PresetLastMonth:
		// time.Date normalizes month 0 to December of the previous year.
		firstOfLastMonth := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		return Window{Start: firstOfLastMonth, End: firstOfMonth, Label: "Last Month"}
	default:
		return Window{Start: firstOfMonth, Label: preset}
	}
}
