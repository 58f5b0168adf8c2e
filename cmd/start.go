package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vinyl-scout/core/loader"
	"vinyl-scout/core/logger"
	"vinyl-scout/core/middleware/auth"
	"vinyl-scout/core/middleware/rayid"
	"vinyl-scout/feature/library"
	"vinyl-scout/feature/search"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the vinyl scout server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		logg := a.logger

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Metrics endpoint (public)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		// 4. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(search.NewFeature(a.search, logg))
		mgr.Register(library.NewFeature(a.library, logg))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Kick off a background sync for any list whose last full sync is
		// older than the staleness threshold.
		go func() {
			ctx := context.Background()
			for _, list := range []library.ListType{library.ListCollection, library.ListWantlist} {
				if err := a.library.RefreshIfStale(ctx, list); err != nil {
					logg.Warn("Startup refresh failed",
						zap.String("list", string(list)),
						zap.Error(err),
					)
				}
			}
		}()

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(":" + a.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		a.close()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
