package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketing-analytics-service/internal/aggregation/core/domain"
	aggUsecase "marketing-analytics-service/internal/aggregation/core/usecase"
	"marketing-analytics-service/internal/platform/config"
	"marketing-analytics-service/internal/platform/logger"
	"marketing-analytics-service/internal/scheduler"
)

func main() {
	var cfgFile string

	root := &cobra.Command{
		Use:           "aggregator",
		Short:         "Marketing metrics aggregation jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				return os.Setenv(config.ConfigPathEnvVar, cfgFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (overrides CONFIG_PATH)")

	root.AddCommand(serveCmd(), runCmd(), hourlyCmd(), archiveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp loads config, builds the runner and calls fn with a context that
// is cancelled on SIGINT or SIGTERM.
func withApp(fn func(ctx context.Context, cfg *config.Config, a *app, log *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Environment, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer a.Close(log)

	return fn(ctx, cfg, a, log)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the hourly and daily triggers on their cron schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, cfg *config.Config, a *app, log *zap.Logger) error {
				s, err := scheduler.New(a.runner, scheduler.Options{
					HourlySpec: cfg.Scheduler.HourlySpec,
					DailySpec:  cfg.Scheduler.DailySpec,
					RunTimeout: cfg.Scheduler.RunTimeout,
					Retries:    cfg.Scheduler.Retries,
					RetryDelay: cfg.Scheduler.RetryDelay,
				}, log)
				if err != nil {
					return err
				}

				var srv *http.Server
				if cfg.Server.MetricsAddr != "" {
					mux := http.NewServeMux()
					mux.Handle("/metrics", a.metrics.Handler())
					srv = &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
					go func() {
						if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
							log.Error("metrics listener stopped", zap.Error(err))
						}
					}()
					log.Info("metrics listener started", zap.String("addr", cfg.Server.MetricsAddr))
				}

				s.Start()
				<-ctx.Done()
				log.Info("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				if srv != nil {
					if err := srv.Shutdown(shutdownCtx); err != nil {
						log.Warn("metrics listener shutdown", zap.Error(err))
					}
				}
				return s.Stop(shutdownCtx)
			})
		},
	}
}

func runCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Recompute every metric for an arbitrary [start, end) window",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseTime(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := parseTime(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			w, err := domain.NewWindow(from, to)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, _ *config.Config, a *app, _ *zap.Logger) error {
				_, err := a.runner.Run(ctx, aggUsecase.TriggerManual, w)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "window start, RFC3339 or YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "window end (exclusive), RFC3339 or YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func hourlyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hourly",
		Short: "Aggregate the last full hour once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, _ *config.Config, a *app, _ *zap.Logger) error {
				_, err := a.runner.HourlyIncremental(ctx, domain.LastFullHour(time.Now()))
				return err
			})
		},
	}
}

func archiveCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Recompute, refresh CLV and archive one day (default: yesterday)",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := domain.PreviousDay(time.Now())
			if date != "" {
				d, err := time.Parse(domain.DateLayout, date)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				day = d
			}
			return withApp(func(ctx context.Context, _ *config.Config, a *app, _ *zap.Logger) error {
				_, err := a.runner.DailyArchive(ctx, day)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to archive, YYYY-MM-DD")
	return cmd
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateLayout, s)
}
