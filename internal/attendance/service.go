package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"qrattend/internal/engine"
	"qrattend/internal/metrics"
	"qrattend/internal/queue"
	"qrattend/internal/roster"
	"qrattend/internal/schedule"
)

// RosterSource supplies the roster snapshot for one scan attempt.
type RosterSource interface {
	ListStudents(ctx context.Context) ([]roster.Student, error)
}

// ScheduleSource supplies the configured schedule snapshot.
type ScheduleSource interface {
	List(ctx context.Context) ([]schedule.Schedule, error)
}

// RecordStore reads the day's records and persists new ones.
type RecordStore interface {
	ListByDate(ctx context.Context, date string) ([]engine.Record, error)
	Insert(ctx context.Context, rec engine.Record) error
}

// Service runs scan attempts: it assembles fresh snapshots, lets the
// engine decide, persists the outcome and hands the record id to the
// queue for history mirroring. The engine itself stays pure; all I/O
// lives here.
type Service struct {
	rosters   RosterSource
	schedules ScheduleSource
	records   RecordStore
	q         queue.Queue
}

// NewService wires the scan orchestrator. q may be nil when history
// mirroring is disabled.
func NewService(rosters RosterSource, schedules ScheduleSource, records RecordStore, q queue.Queue) *Service {
	return &Service{rosters: rosters, schedules: schedules, records: records, q: q}
}

// Scan processes one decoded QR payload at the given wall-clock time.
// Engine rejections come back unwrapped so callers can switch on
// engine.ErrStudentNotFound, engine.ErrNoScheduleConfigured and
// *engine.DuplicateError.
func (s *Service) Scan(ctx context.Context, rawText string, now time.Time) (engine.Record, error) {
	students, err := s.rosters.ListStudents(ctx)
	if err != nil {
		return engine.Record{}, err
	}
	configured, err := s.schedules.List(ctx)
	if err != nil {
		return engine.Record{}, err
	}
	existing, err := s.records.ListByDate(ctx, now.Format("2006-01-02"))
	if err != nil {
		return engine.Record{}, err
	}

	rec, err := engine.AttemptRecord(rawText, now,
		roster.EngineAll(students), schedule.EngineAll(configured), existing)
	if err != nil {
		metrics.ScanAttempts.WithLabelValues(outcome(err)).Inc()
		return engine.Record{}, err
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		return engine.Record{}, err
	}
	metrics.ScanAttempts.WithLabelValues(string(rec.Status)).Inc()

	if s.q != nil {
		msg := queue.Message{Type: "recorded", Body: []byte(rec.ID)}
		if err := s.q.Publish(ctx, msg); err != nil {
			log.Warn().Err(err).Str("record_id", rec.ID).Msg("history mirror publish failed")
		}
	}
	return rec, nil
}

func outcome(err error) string {
	var dup *engine.DuplicateError
	switch {
	case errors.Is(err, engine.ErrStudentNotFound):
		return "not_found"
	case errors.Is(err, engine.ErrNoScheduleConfigured):
		return "no_schedule"
	case errors.As(err, &dup):
		return "duplicate"
	default:
		return "error"
	}
}
