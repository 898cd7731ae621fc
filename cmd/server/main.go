package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adminConsole/internal/config"
	"adminConsole/internal/modules/console/application/port"
	"adminConsole/internal/modules/console/application/usecase"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/modules/console/infrastructure"
	transport "adminConsole/internal/modules/console/interface"
	"adminConsole/internal/platform/broker"
	"adminConsole/internal/shared/auth"
	"adminConsole/internal/shared/logging"
)

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("records api configured", slog.String("baseURL", cfg.REST.BaseURL), slog.Duration("timeout", cfg.REST.Timeout))

	validator, err := auth.NewJWTValidatorWithPublicKey(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey)
	if err != nil {
		slog.Error("jwt validator setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	hub := infrastructure.NewHub()

	var publisher port.MessagePublisher
	var kafkaPublisher *broker.KafkaPublisher
	if cfg.KafkaEnabled() {
		kafkaPublisher = broker.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OutcomeTopic, cfg.Kafka.BatchTimeout)
		if kafkaPublisher != nil {
			publisher = kafkaPublisher
			slog.Info("kafka outcome stream enabled", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.OutcomeTopic))
		}
	}
	reporter := usecase.NewOutcomeReporter(hub, publisher)

	rest := infrastructure.NewRESTClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil)
	employees, err := infrastructure.NewResourceHTTPClient(rest, domain.EmployeeKind)
	if err != nil {
		slog.Error("employee client setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	departments, err := infrastructure.NewResourceHTTPClient(rest, domain.DepartmentKind)
	if err != nil {
		slog.Error("department client setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	users, err := infrastructure.NewResourceHTTPClient(rest, domain.UserKind)
	if err != nil {
		slog.Error("user client setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	dashboardClient := infrastructure.NewDashboardHTTPClient(rest)

	views := usecase.NewViewFactory(employees.Source(), departments.Source(), users.Source(), reporter, cfg.Console.PageSize)
	dashboardUC := usecase.NewDashboardUseCase(dashboardClient.StatsSource(), dashboardClient.LookupSource())

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	transport.RegisterRoutes(e, transport.Dependencies{
		Hub:       hub,
		Views:     views,
		Dashboard: dashboardUC,
		Exporter:  infrastructure.NewSpreadsheetExporter(),
		Validator: validator,
		Websocket: transport.WebsocketOptions{
			SendBuffer:     cfg.Websocket.SendBuffer,
			CommandTimeout: cfg.Websocket.CommandTimeout,
			AllowedOrigins: cfg.Websocket.AllowedOrigins,
		},
		HTTPTimeout: cfg.REST.Timeout,
	})
	registerMetrics(e, cfg.Metrics)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
	if err := kafkaPublisher.Close(); err != nil {
		slog.Warn("kafka publisher close error", slog.Any("error", err))
	}
}

func registerMetrics(e *echo.Echo, cfg config.MetricsConfig) {
	if !cfg.Enabled {
		return
	}
	handler := echo.WrapHandler(promhttp.Handler())
	if cfg.Username == "" || cfg.Password == "" {
		e.GET(cfg.Path, handler)
		return
	}
	e.GET(cfg.Path, handler, middleware.BasicAuth(func(username, password string, _ echo.Context) (bool, error) {
		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
		return userOK && passOK, nil
	}))
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	fileName := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".log")
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
		Service:   "admin-console",
		Host:      config.Hostname(),
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
