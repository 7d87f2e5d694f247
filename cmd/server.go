package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"staff-planner.com/staff-planner/internal/cache"
	config "staff-planner.com/staff-planner/internal/configs"
	httpapi "staff-planner.com/staff-planner/internal/http"
	repository "staff-planner.com/staff-planner/internal/repositories"
	"staff-planner.com/staff-planner/internal/services"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  "Starts the staff planner HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		zerolog.TimeFieldFormat = time.RFC3339
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

		if err := godotenv.Load(); err != nil {
			log.Info().Msg(".env file not found, using environment variables")
		}

		cfg := config.Load()

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()

		db := config.New(cfg.DatabaseDSN)

		taskRepo := repository.NewTaskRepository(db)
		overlayRepo := repository.NewOverlayRepository(db)
		leaveRepo := repository.NewLeaveRepository(db)

		calendarCache := cache.NewCalendarCache(
			redisClient,
			time.Duration(cfg.CalendarCacheTTLSeconds)*time.Second,
		)

		taskService := services.NewTaskService(taskRepo, overlayRepo, calendarCache)
		calendarService := services.NewCalendarService(taskRepo, overlayRepo, leaveRepo, calendarCache)
		leaveService := services.NewLeaveService(leaveRepo, calendarCache)

		e := echo.New()
		e.HideBanner = true

		handler := httpapi.NewHandler(taskService, calendarService, leaveService)
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			log.Info().Str("addr", cfg.AppURL).Msg("HTTP server listening")
			if err := e.Start(cfg.AppURL); err != nil {
				log.Info().Err(err).Msg("server stopped")
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)

		log.Info().Msg("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
