package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/locshare/internal/client"
	"github.com/xxxsen/locshare/internal/config"
	"github.com/xxxsen/locshare/internal/geo"
	"github.com/xxxsen/locshare/internal/handler"
	"github.com/xxxsen/locshare/internal/job"
	"github.com/xxxsen/locshare/internal/registry"
	"github.com/xxxsen/locshare/internal/render"
	"github.com/xxxsen/locshare/internal/repo"
	"github.com/xxxsen/locshare/internal/schedule"
	"github.com/xxxsen/locshare/internal/service"
	"github.com/xxxsen/locshare/web"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "locshare",
		Short: "ephemeral location sharing server and client",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	rootCmd.AddCommand(newRunCmd(&configPath))
	rootCmd.AddCommand(newShareCmd(&configPath))
	rootCmd.AddCommand(newFeedCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("command error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	return cfg, nil
}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "run the share server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info("starting server",
		zap.Int("port", cfg.Port),
		zap.Bool("sweep", cfg.Sweep.Enabled),
	)

	reg := registry.New()
	shares := service.NewShareService(reg)

	router := handler.NewRouter(handler.RouterDeps{
		Shares:        handler.NewShareHandler(shares, cfg.BaseURL),
		ShellFS:       web.FS,
		CORSAllowlist: cfg.CORSAllowlist,
		CreateWindow:  time.Duration(cfg.CreateWindowMillis) * time.Millisecond,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sweep.Enabled {
		scheduler := schedule.NewCronScheduler()
		if err := scheduler.AddJob(job.NewRegistrySweepJob(reg), cfg.Sweep.Spec); err != nil {
			return fmt.Errorf("schedule sweep: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: router,
	}
	go func() {
		logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newShareCmd(configPath *string) *cobra.Command {
	var (
		lat, lng   float64
		hasCoords  bool
		label      string
		ttl        float64
		serverBase string
	)
	cmd := &cobra.Command{
		Use:   "share",
		Short: "share the current position, durable store first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			hasCoords = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")

			httpClient := &http.Client{Timeout: 10 * time.Second}
			var provider geo.Provider
			if hasCoords {
				provider = geo.Static{Position: geo.Position{Lat: lat, Lng: lng}}
			} else if cfg.GeoEndpoint != "" {
				provider = &geo.HTTPProvider{Endpoint: cfg.GeoEndpoint, Client: httpClient}
			} else {
				return fmt.Errorf("no position source: pass --lat/--lng or set geo_endpoint")
			}

			var store client.DurableStore
			if cfg.DBDSN != "" {
				db, err := repo.Open(cfg.DBDSN)
				if err != nil {
					// missing or unreachable durable store degrades to the
					// ephemeral path, same as any later write failure
					logutil.GetLogger(cmd.Context()).Warn("durable store unavailable", zap.Error(err))
				} else {
					defer db.Close()
					store = repo.NewLocationRepo(db)
				}
			}

			base := serverBase
			if base == "" {
				base = cfg.BaseURL
			}
			if base == "" {
				base = fmt.Sprintf("http://localhost:%d", cfg.Port)
			}
			api := client.NewAPI(base, httpClient)

			negotiator := client.NewNegotiator(provider, store, api, cfg.Owner)
			opts := client.ShareOptions{Label: label}
			if ttl > 0 {
				opts.TTLMinutes = &ttl
			}
			attempt := negotiator.Share(cmd.Context(), opts)
			if attempt.Err != nil {
				return fmt.Errorf("share attempt failed (%s): %w", attempt.State, attempt.Err)
			}
			if attempt.Durable.Succeeded() {
				fmt.Printf("saved to durable store as %s\n", attempt.Durable.Saved.ID)
				return nil
			}
			fmt.Printf("share URL: %s\n", attempt.Share.URL)
			if attempt.Share.ExpiresAt != nil {
				fmt.Printf("expires: %s\n", time.UnixMilli(*attempt.Share.ExpiresAt).Format(time.RFC3339))
			} else {
				fmt.Println("expires: never")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude (skips geolocation)")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude (skips geolocation)")
	cmd.Flags().StringVar(&label, "label", "", "label to show on the shared marker")
	cmd.Flags().Float64Var(&ttl, "ttl", 0, "minutes until the share expires (0 = never)")
	cmd.Flags().StringVar(&serverBase, "server", "", "share service base URL")
	return cmd
}

func newFeedCmd(configPath *string) *cobra.Command {
	var (
		limit        uint
		centerLatest bool
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "render the durable location feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.DBDSN == "" {
				return fmt.Errorf("db_dsn is required for the feed")
			}
			db, err := repo.Open(cfg.DBDSN)
			if err != nil {
				fmt.Println("could not load locations")
				logutil.GetLogger(cmd.Context()).Error("open durable store", zap.Error(err))
				return nil
			}
			defer db.Close()

			locations, err := repo.NewLocationRepo(db).ListRecent(cmd.Context(), cfg.Owner, limit)
			if err != nil {
				// degraded status, not a crash: render whatever we have
				fmt.Println("could not load locations")
				logutil.GetLogger(cmd.Context()).Error("list locations", zap.Error(err))
				locations = nil
			}
			feed := render.NewFeed(render.NewConsole(os.Stdout))
			feed.Reconcile(cmd.Context(), locations, render.ReconcileOptions{CenterLatest: centerLatest})
			return nil
		},
	}
	cmd.Flags().UintVar(&limit, "limit", 50, "maximum records to render")
	cmd.Flags().BoolVar(&centerLatest, "center-latest", false, "center the view on the newest record")
	return cmd
}
