/*
serve.go - HTTP server command

STARTUP SEQUENCE:
  1. Load the slab document (--slabs, or built-in tables)
  2. Pick the result cache: Redis when --redis-addr is set, in-memory otherwise
  3. Configure the router and start listening

SIGNALS:
  SIGHUP          Reload the slab document. Cached reports are keyed on the
                  document generation, so stale results are never served.
  SIGINT/SIGTERM  Stop accepting connections, drain for up to 30s, exit
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/taxsavvy/internal/api"
	"github.com/rgehrsitz/taxsavvy/internal/cache"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("redis-addr", "", "Redis address for the result cache (default: in-memory cache)")
	cmd.Flags().Duration("cache-ttl", cache.DefaultTTL, "Lifetime of cached reports")
	cmd.Flags().Int("rate-limit", api.DefaultRouterOptions().RateLimit, "Calculation requests per client per minute (0 disables)")
	cmd.Flags().StringSlice("cors-origin", api.DefaultRouterOptions().AllowedOrigins, "Allowed CORS origins")
	cmd.Flags().Bool("trust-proxy", false, "Take client addresses from X-Forwarded-For/X-Real-IP (only behind a reverse proxy)")
	cmd.Flags().Int("cache-entries", cache.DefaultMaxEntries, "Maximum reports held by the in-memory cache")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	ttl, _ := cmd.Flags().GetDuration("cache-ttl")
	rateLimit, _ := cmd.Flags().GetInt("rate-limit")
	origins, _ := cmd.Flags().GetStringSlice("cors-origin")
	trustProxy, _ := cmd.Flags().GetBool("trust-proxy")
	maxEntries, _ := cmd.Flags().GetInt("cache-entries")

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	var memory *cache.MemoryCache
	if redisAddr != "" {
		rc := cache.NewRedisCache(redisAddr, ttl)
		defer rc.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
		}
		engine.Cache = rc
		log.Printf("Result cache: redis at %s (ttl %s)", redisAddr, ttl)
	} else {
		memory = cache.NewMemoryCache(ttl, maxEntries)
		engine.Cache = memory
		log.Printf("Result cache: in-memory (ttl %s, %d entries)", ttl, maxEntries)
	}

	opts := api.RouterOptions{AllowedOrigins: origins, TrustProxy: trustProxy}
	if rateLimit > 0 {
		opts.Limiter = api.NewRateLimiter(rateLimit, time.Minute)
		defer opts.Limiter.Stop()
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(api.NewHandler(engine), opts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (slab years: %v)", addr, engine.Slabs.Years())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	for {
		select {
		case err, ok := <-serverErr:
			if ok {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil

		case sig := <-signals:
			if sig == syscall.SIGHUP {
				if err := engine.Slabs.Reload(); err != nil {
					log.Printf("Slab reload failed, keeping generation %d: %v", engine.Slabs.Generation(), err)
					continue
				}
				if memory != nil {
					memory.Clear()
				}
				log.Printf("Slab document reloaded (generation %d)", engine.Slabs.Generation())
				continue
			}

			log.Println("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Println("Server stopped")
			return nil
		}
	}
}
