package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactrelay/backend/internal/config"
	"github.com/contactrelay/backend/internal/handler"
	"github.com/contactrelay/backend/internal/logging"
	"github.com/contactrelay/backend/internal/model"
	"github.com/contactrelay/backend/internal/notify"
	"github.com/contactrelay/backend/internal/repository"
	"github.com/contactrelay/backend/internal/service"
	"github.com/contactrelay/backend/pkg/telegram"
)

func main() {
	cfg, err := config.Load()
	logging.Setup("contact-relay")
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	if len(cfg.AdminIDs) == 0 {
		slog.Warn("no ADMIN_USER_IDS set; no one will receive notifications")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := openRepository(ctx, cfg)
	defer closeRepo()

	bot, err := telegram.New(cfg.BotToken)
	if err != nil {
		logging.Fatal("failed to initialize telegram bot", "error", err)
	}

	dispatcher := notify.NewDispatcher(bot, cfg.AdminIDs)
	submissionService := service.NewSubmissionService(repo, dispatcher)
	commandHandler := handler.NewCommandHandler(cfg, bot)

	routes := handler.Routes{
		Base:        handler.New(repo, cfg.AllowedOrigin),
		Submissions: handler.NewSubmissionHandler(submissionService),
		NotifyLimit: handler.NewRateLimiter(ctx, cfg.NotifyRateLimit, cfg.TrustedProxyCount),
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      routes.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go bot.Listen(ctx, map[string]telegram.CommandFunc{
		"start": func(ctx context.Context, senderID, chatID string) {
			commandHandler.Start(ctx, model.ChatCommand{SenderID: senderID, ChatID: chatID})
		},
	})

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.StoreDriver, "admins", dispatcher.Recipients())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	bot.Stop()
	dispatcher.Close()
}

// openRepository returns the submission store selected by STORE_DRIVER and a
// function releasing its resources.
func openRepository(ctx context.Context, cfg *config.Config) (repository.SubmissionRepository, func()) {
	if cfg.StoreDriver != config.StorePostgres {
		return repository.NewFileSubmissionRepository(cfg.ContactsFile), func() {}
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	if _, err := pool.Exec(ctx, repository.SubmissionsSchema); err != nil {
		pool.Close()
		logging.Fatal("failed to ensure submissions table", "error", err)
	}
	return repository.NewPgSubmissionRepository(pool), pool.Close
}
