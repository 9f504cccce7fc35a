package store

import (
	"context"
	"errors"
	"log"

	"mingle/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrJobNotFound = errors.New("job not found")

type DBStorer interface {
	SaveJob(context.Context, types.Job) error
	GetJobByID(context.Context, uuid.UUID) (*types.Job, error)
	// ListJobs returns the most recent jobs first.
	ListJobs(context.Context, int) ([]types.Job, error)
	Close() error
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

const jobColumns = "id, kind, status, source, inputs, pages, output_path, error, created_at, updated_at"

func (p *PostgresStore) SaveJob(ctx context.Context, job types.Job) error {
	query := `INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			pages = EXCLUDED.pages,
			output_path = EXCLUDED.output_path,
			error = EXCLUDED.error,
			updated_at = EXCLUDED.updated_at
			`
	_, err := p.pool.Exec(
		ctx,
		query,
		job.ID,
		job.Kind,
		job.Status,
		job.Source,
		job.Inputs,
		job.Pages,
		job.OutputPath,
		job.Error,
		job.CreatedAt,
		job.UpdatedAt,
	)

	return err
}

func (p *PostgresStore) GetJobByID(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	row := p.pool.QueryRow(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id)

	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (p *PostgresStore) ListJobs(ctx context.Context, limit int) ([]types.Job, error) {
	rows, err := p.pool.Query(ctx, "SELECT "+jobColumns+" FROM jobs ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []types.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func scanJob(row pgx.Row) (*types.Job, error) {
	job := &types.Job{}
	if err := row.Scan(
		&job.ID,
		&job.Kind,
		&job.Status,
		&job.Source,
		&job.Inputs,
		&job.Pages,
		&job.OutputPath,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt); err != nil {
		return nil, err
	}
	return job, nil
}

func (p *PostgresStore) createJobTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL CHECK (kind IN ('layout','merge')),
		status TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		inputs INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		output_path TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at DESC);
	`
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createJobTables(ctx)
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
