package repository

import (
	"context"
	"encoding/json"

	"github.com/contactrelay/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionsSchema creates the table used by PgSubmissionRepository.
// The optional columns hold the submitted JSON value text; '' means absent.
const SubmissionsSchema = `CREATE TABLE IF NOT EXISTS contact_submissions (
	id           BIGSERIAL PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	message      TEXT NOT NULL,
	subject      TEXT NOT NULL DEFAULT '',
	company      TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	project_type TEXT NOT NULL DEFAULT '',
	budget       TEXT NOT NULL DEFAULT '',
	timeline     TEXT NOT NULL DEFAULT '',
	date         TEXT NOT NULL
)`

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

// Load returns all rows ordered by insertion.
func (r *PgSubmissionRepository) Load(ctx context.Context) ([]*model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, email, message, subject, company, phone, project_type, budget, timeline, date
		 FROM contact_submissions
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []*model.Submission{}
	for rows.Next() {
		var s model.Submission
		var company, phone, projectType, budget, timeline string
		if err := rows.Scan(&s.Name, &s.Email, &s.Message, &s.Subject, &company,
			&phone, &projectType, &budget, &timeline, &s.Date); err != nil {
			return nil, err
		}
		s.Company = rawField(company)
		s.Phone = rawField(phone)
		s.ProjectType = rawField(projectType)
		s.Budget = rawField(budget)
		s.Timeline = rawField(timeline)
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

func (r *PgSubmissionRepository) Append(ctx context.Context, sub *model.Submission) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO contact_submissions
		 (name, email, message, subject, company, phone, project_type, budget, timeline, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sub.Name, sub.Email, sub.Message, sub.Subject, string(sub.Company),
		string(sub.Phone), string(sub.ProjectType), string(sub.Budget), string(sub.Timeline), sub.Date,
	)
	return err
}

func rawField(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func (r *PgSubmissionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
