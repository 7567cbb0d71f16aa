package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/contactrelay/backend/internal/logging"
	"github.com/contactrelay/backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

var errTargetNotEmpty = errors.New("contact_submissions already has rows")

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)        create the contact_submissions table
  import [file]    create the table and copy submissions from a JSON file
                   (default: $CONTACTS_FILE or contacts.json); refused
                   when the table already has rows`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	logging.Setup("contact-relay-migrate")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logging.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, dbURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		ensureSchema(ctx, pool)
	case "import":
		ensureSchema(ctx, pool)
		src := os.Getenv("CONTACTS_FILE")
		if len(os.Args) > 2 {
			src = os.Args[2]
		}
		if src == "" {
			src = "contacts.json"
		}
		n, err := importFile(ctx, repository.NewFileSubmissionRepository(src), repository.NewPgSubmissionRepository(pool))
		if err != nil {
			logging.Fatal("import failed", "file", src, "imported", n, "error", err)
		}
		slog.Info("import completed", "file", src, "count", n)
	default:
		usage()
	}
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) {
	if _, err := pool.Exec(ctx, repository.SubmissionsSchema); err != nil {
		logging.Fatal("create table failed", "error", err)
	}
	slog.Info("schema ready", "table", "contact_submissions")
}

// importFile appends every submission from src to dst in stored order and
// returns how many were copied. A dst that already holds submissions is
// refused so a repeated run cannot duplicate rows.
func importFile(ctx context.Context, src, dst repository.SubmissionRepository) (int, error) {
	existing, err := dst.Load(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, fmt.Errorf("%w (%d)", errTargetNotEmpty, len(existing))
	}

	subs, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	for i, s := range subs {
		if err := dst.Append(ctx, s); err != nil {
			return i, err
		}
	}
	return len(subs), nil
}
