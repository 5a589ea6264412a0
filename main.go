package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/elex/auth"
	"github.com/danielhkuo/elex/cliparse"
	"github.com/danielhkuo/elex/db"
	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/logging"
	"github.com/danielhkuo/elex/memstore"
	"github.com/danielhkuo/elex/middleware"
	"github.com/danielhkuo/elex/notify"
	"github.com/danielhkuo/elex/report"
	"github.com/danielhkuo/elex/router"
)

const (
	notifyQueueSize = 1024
	sendAttempts    = 3
	shutdownTimeout = 10 * time.Second
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}
	logging.Setup()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the store and create schema (tables)
	store, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("Store ready", "type", cfg.DatabaseType)

	// Voter mail goes out on background workers
	dispatcher := notify.NewDispatcher(
		newSender(cfg),
		notify.Composer{BaseURL: cfg.BaseURL},
		cfg.NotifyWorkers,
		notifyQueueSize,
		slog.Default(),
	)
	defer dispatcher.Close()

	svc := election.NewService(store, dispatcher, report.PDFRenderer{}, election.Policy{
		RequireVoterToStart: cfg.RequireVoterToStart,
		OperationTimeout:    cfg.OperationTimeout,
	})

	// Create router
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
	mux := router.NewRouter(svc, jwtManager)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.CORSOrigins, mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "base_url", cfg.BaseURL)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

func openStore(cfg cliparse.Config) (election.Store, func(), error) {
	if cfg.DatabaseType == "memory" {
		slog.Warn("using in-memory store; data is lost on exit")
		return memstore.New(), func() {}, nil
	}

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func newSender(cfg cliparse.Config) notify.Sender {
	if cfg.SMTPHost == "" {
		slog.Warn("SMTP_HOST not set; notifications are logged, not sent")
		return notify.LogSender{}
	}
	return notify.Retrying{
		Sender: notify.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		},
		Attempts: sendAttempts,
		Backoff:  2 * time.Second,
	}
}
