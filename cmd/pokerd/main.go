package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jdstemmler/pokerd/internal/admin"
	"github.com/jdstemmler/pokerd/internal/coordinator"
	"github.com/jdstemmler/pokerd/internal/registry"
	"github.com/jdstemmler/pokerd/internal/store"
	"github.com/jdstemmler/pokerd/internal/timer"
	"github.com/jdstemmler/pokerd/internal/transport/httpapi"
	"github.com/redis/go-redis/v9"
	"github.com/vctt94/bisonbotkit/logging"
)

// Configuration is read entirely from the environment, per spec.md §6
// "CLI / env": pokerd runs as a long-lived service behind a process
// supervisor, not an interactively-flagged CLI.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	redisURL := envOr("REDIS_URL", "redis://127.0.0.1:6379/0")
	listenAddr := envOr("LISTEN_ADDR", "0.0.0.0:8080")
	debugLevel := envOr("DEBUG_LEVEL", "info")
	adminPassword := envOr("ADMIN_PASSWORD", "")
	// RATE_LIMIT_ENABLED is accepted but has no effect: pokerd does not
	// rate-limit requests.
	_ = envOr("RATE_LIMIT_ENABLED", "false")

	logBackend, err := logging.NewLogBackend(logging.LogConfig{DebugLevel: debugLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}
	log := logBackend.Logger("POKERD")

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid REDIS_URL %q: %v\n", redisURL, err)
		os.Exit(1)
	}
	rstore := store.NewFromClient(redis.NewClient(redisOpts))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rstore.Ping(ctx); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "failed to reach redis at %s: %v\n", redisURL, err)
		os.Exit(1)
	}
	cancel()
	defer rstore.Close()

	conns := registry.New()
	coord := coordinator.New(rstore, conns, time.Now, logBackend.Logger("COORDINATOR"))

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := timer.New(coord, conns, logBackend.Logger("TIMER"))
	go sched.Run(runCtx)

	cleaner := admin.NewCleaner(rstore, conns, logBackend.Logger("ADMIN"))
	go cleaner.Run(runCtx)

	go func() {
		ticker := time.NewTicker(registry.HeartbeatTimeout / 2)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case now := <-ticker.C:
				conns.Reap(now)
			}
		}
	}()

	api := httpapi.New(coord, rstore, conns, logBackend.Logger("HTTP"), adminPassword)
	srv := &http.Server{Addr: listenAddr, Handler: api.Handler()}

	go func() {
		log.Infof("listening on %s", listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http serve error: %v", err)
		}
	}()

	<-runCtx.Done()
	log.Infof("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown error: %v", err)
	}
}
