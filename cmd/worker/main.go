package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"qrattend/internal/attendance"
	"qrattend/internal/config"
	"qrattend/internal/logger"
	"qrattend/internal/metrics"
	"qrattend/internal/queue"
	"qrattend/internal/store"
)

// The worker consumes finalized attendance records off the queue and
// mirrors each one into the student's own history log.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "qrattend:records")
	}

	records := attendance.NewRepository(db.Client)

	// Expose mirror counters on a side port.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			log.Warn().Err(err).Msg("metrics listener stopped")
		}
	}()

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("queue consume init failed")
	}

	log.Info().Msg("worker started, waiting for records")
	for msg := range messages {
		if msg.Type != "recorded" {
			continue
		}

		id := string(msg.Body)
		rec, err := records.Get(ctx, id)
		if err != nil {
			if errors.Is(err, attendance.ErrNotFound) {
				log.Warn().Str("record_id", id).Msg("record vanished before mirroring")
			} else {
				log.Error().Err(err).Str("record_id", id).Msg("fetch record failed")
			}
			metrics.HistoryMirrored.WithLabelValues("failed").Inc()
			continue
		}

		if err := records.InsertHistory(ctx, rec); err != nil {
			log.Error().Err(err).Str("record_id", id).Msg("history mirror failed")
			metrics.HistoryMirrored.WithLabelValues("failed").Inc()
			continue
		}
		metrics.HistoryMirrored.WithLabelValues("ok").Inc()
		log.Debug().Str("record_id", id).Str("student_id", rec.StudentID).Msg("history mirrored")
	}

	log.Info().Msg("worker stopped")
}
