package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/dallaylaen/guardstat-go/core/guard"
)

// === Config ===

var (
	logLevel    = slog.LevelInfo
	N           = getEnvInt("N", 100_000)
	workers     = getEnvInt("WORKERS", 8)
	finishRatio = getEnvFloat("FINISH_RATIO", 0.95)
)

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, fmt.Sprintf("%d", fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, fmt.Sprintf("%v", fallback)), 64)
	if err != nil {
		return fallback
	}
	return v
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	tracker, err := guard.NewTracker(guard.Options{
		Logger:    log,
		TrackTime: true,
	})
	if err != nil {
		log.Error("tracker setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("starting",
		slog.Int("guards", N),
		slog.Int("workers", workers),
		slog.Float64("finish_ratio", finishRatio),
	)

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			prefix := gonanoid.Must(4)
			for i := 0; i < N/workers; i++ {
				g := tracker.Guard(guard.WithTag(fmt.Sprintf("%s-%d", prefix, i)))
				if rand.Float64() < finishRatio {
					g.Finish("ok")
				}
				g.Close()
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	stats := tracker.Stats()

	log.Info("done",
		slog.Duration("elapsed", elapsed),
		slog.Float64("guards_per_sec", float64(stats.Total)/elapsed.Seconds()),
		slog.Uint64("total", stats.Total),
		slog.Uint64("complete", stats.Complete),
		slog.Uint64("broken", stats.Broken),
		slog.Uint64("zombie", stats.Zombie),
		slog.Uint64("running", stats.Running),
	)

	fmt.Println("lifetime buckets:")
	for label, count := range tracker.TimeDistribution() {
		fmt.Printf("  %8s  %d\n", label, count)
	}
}
