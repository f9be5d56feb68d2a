package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/formwork-dev/formwork"
	"github.com/formwork-dev/formwork/internal/cli"
	fileAdapter "github.com/formwork-dev/formwork/pkg/adapters/file"
	httpAdapter "github.com/formwork-dev/formwork/pkg/adapters/http"
	"github.com/formwork-dev/formwork/pkg/adapters/memory"
	redisAdapter "github.com/formwork-dev/formwork/pkg/adapters/redis"
	"github.com/formwork-dev/formwork/pkg/observability"
	"github.com/formwork-dev/formwork/pkg/ports"
	"github.com/formwork-dev/formwork/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the engine in server mode, exposing evaluation, draft storage
and Prometheus metrics over a JSON API. Drafts live in memory unless a
Redis address is configured; with Redis, draft writes also take a
distributed lock so multiple replicas can share the store.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		addr, _ := cmd.Flags().GetString("addr")
		redisAddr, _ := cmd.Flags().GetString("redis")
		draftsDir, _ := cmd.Flags().GetString("drafts-dir")
		draftTTL, _ := cmd.Flags().GetDuration("draft-ttl")
		level, _ := cmd.Flags().GetString("log-level")

		if redisAddr != "" && draftsDir != "" {
			fmt.Println("Error: --redis and --drafts-dir cannot be used together.")
			os.Exit(1)
		}

		logger := cli.NewLogger(level)

		metrics := observability.NewMetrics()
		registry := prometheus.NewRegistry()
		metrics.MustRegister(registry)

		engine, err := cli.NewEngine(file, logger, formwork.WithLifecycleHooks(metrics.Hooks()))
		if err != nil {
			fmt.Printf("Error initializing formwork: %v\n", err)
			os.Exit(1)
		}

		var store ports.SnapshotStore
		sessionOpts := []session.Option{session.WithLogger(logger)}

		switch {
		case redisAddr != "":
			client := backend.NewClient(&backend.Options{Addr: redisAddr})
			defer client.Close()

			store = redisAdapter.NewFromClient(client, redisAdapter.WithTTL(draftTTL))
			sessionOpts = append(sessionOpts, session.WithLocker(redisAdapter.NewLocker(client, "formwork:")))
			logger.Info("Draft storage on Redis", "address", redisAddr, "ttl", draftTTL)
		case draftsDir != "":
			store = fileAdapter.New(draftsDir)
			logger.Info("Draft storage on disk", "dir", draftsDir)
		default:
			store = memory.NewStore()
			logger.Info("Draft storage in memory")
		}

		sessions := session.NewManager(store, engine, sessionOpts...)

		handler := httpAdapter.NewHandler(engine,
			httpAdapter.WithSessions(sessions),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:    addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Formwork Server on %s\n", srv.Addr)
			fmt.Printf("Serving definition: %s\n", file)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Formwork Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for draft storage (host:port); empty keeps drafts in memory")
	serveCmd.Flags().String("drafts-dir", "", "Directory for draft storage on disk; empty keeps drafts in memory")
	serveCmd.Flags().Duration("draft-ttl", 0, "Expire Redis drafts after this duration (0 keeps them forever)")
}
