// Package schedule manages the configured session starts attendance is
// measured against.
package schedule

import (
	"errors"
	"fmt"

	"qrattend/internal/engine"
)

// Schedule is a configured session. StartTime uses 24h "HH:MM".
type Schedule struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	StartTime    string `json:"start_time"`
	GraceMinutes int    `json:"grace_minutes"`
}

// ParseClock converts a 24h "HH:MM" clock string to minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}

// Validate checks the invariants enforced at configuration time.
func (s Schedule) Validate() error {
	if s.Label == "" {
		return errors.New("label required")
	}
	if _, err := ParseClock(s.StartTime); err != nil {
		return err
	}
	if s.GraceMinutes < 0 {
		return errors.New("grace minutes must be non-negative")
	}
	return nil
}

// Engine converts to the engine's minute-of-day representation.
func (s Schedule) Engine() (engine.Schedule, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return engine.Schedule{}, err
	}
	return engine.Schedule{
		ID:           s.ID,
		Label:        s.Label,
		StartMinute:  start,
		GraceMinutes: s.GraceMinutes,
	}, nil
}

// EngineAll converts a configured list, skipping entries whose stored start
// time no longer parses rather than failing the whole scan.
func EngineAll(schedules []Schedule) []engine.Schedule {
	out := make([]engine.Schedule, 0, len(schedules))
	for _, s := range schedules {
		es, err := s.Engine()
		if err != nil {
			continue
		}
		out = append(out, es)
	}
	return out
}
