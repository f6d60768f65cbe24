package database

import (
	"context"
	"fmt"
	"time"

	"go-apply-agent/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// InitSchema creates the tables if they do not exist yet.
func (r *Repository) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS jobs (
			id           BIGSERIAL PRIMARY KEY,
			title        TEXT NOT NULL,
			company      TEXT NOT NULL,
			location     TEXT,
			remote       BOOLEAN NOT NULL DEFAULT FALSE,
			description  TEXT,
			requirements TEXT,
			url          TEXT NOT NULL UNIQUE,
			ats_type     TEXT NOT NULL DEFAULT 'UNKNOWN',
			source       TEXT NOT NULL DEFAULT '',
			source_id    TEXT,
			match_score  DOUBLE PRECISION,
			match_reason TEXT,
			status       TEXT NOT NULL DEFAULT 'NEW',
			posted_date  TIMESTAMPTZ,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status);
		CREATE INDEX IF NOT EXISTS idx_jobs_match_score ON jobs (match_score);

		CREATE TABLE IF NOT EXISTS applications (
			id             BIGSERIAL PRIMARY KEY,
			job_id         BIGINT NOT NULL REFERENCES jobs(id),
			status         TEXT NOT NULL DEFAULT 'PENDING',
			submitted_data JSONB,
			response_data  JSONB,
			error_message  TEXT,
			retry_count    INT NOT NULL DEFAULT 0,
			submitted_at   TIMESTAMPTZ,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications (job_id);
		CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status);

		CREATE TABLE IF NOT EXISTS resume_data (
			id         BIGSERIAL PRIMARY KEY,
			raw_text   TEXT NOT NULL,
			file_path  TEXT NOT NULL,
			file_hash  TEXT NOT NULL UNIQUE,
			embedding  JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`

	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ---------------- JOB OPERATIONS ----------------

// SaveJob inserts a new job keyed by URL. Returns (job, false) without
// touching the row when the URL is already known.
func (r *Repository) SaveJob(ctx context.Context, job *models.Job) (*models.Job, bool, error) {
	query := `
		INSERT INTO jobs (title, company, location, remote, description, requirements, url, ats_type, source, source_id, status, posted_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		job.Title, job.Company, job.Location, job.Remote, job.Description, job.Requirements,
		job.URL, job.ATSType, job.Source, job.SourceID, models.JobNew, job.PostedDate).
		Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	if err == pgx.ErrNoRows {
		return job, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to save job: %w", err)
	}

	job.Status = models.JobNew
	return job, true, nil
}

const jobColumns = `id, title, company, COALESCE(location, ''), remote, COALESCE(description, ''), COALESCE(requirements, ''), url, ats_type, source, source_id, match_score, match_reason, status, posted_date, created_at, updated_at`

func (r *Repository) scanJob(row pgx.Row) (*models.Job, error) {
	var job models.Job
	err := row.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.Remote,
		&job.Description, &job.Requirements, &job.URL, &job.ATSType, &job.Source,
		&job.SourceID, &job.MatchScore, &job.MatchReason, &job.Status, &job.PostedDate,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobByID retrieves a job by ID
func (r *Repository) GetJobByID(ctx context.Context, jobID int64) (*models.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns)
	job, err := r.scanJob(r.db.QueryRow(ctx, query, jobID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return job, nil
}

// ListJobsByStatus returns jobs in the given state, best match first.
func (r *Repository) ListJobsByStatus(ctx context.Context, status models.JobStatus, limit int) ([]*models.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE status = $1 ORDER BY match_score DESC NULLS LAST LIMIT $2`, jobColumns)
	rows, err := r.db.Query(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListMatchedJobs returns MATCHED jobs on the given ATS platform, best match first.
func (r *Repository) ListMatchedJobs(ctx context.Context, ats models.ATSType, limit int) ([]*models.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE status = $1 AND ats_type = $2 ORDER BY match_score DESC NULLS LAST LIMIT $3`, jobColumns)
	rows, err := r.db.Query(ctx, query, models.JobMatched, ats, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matched jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// UpdateJobMatch stores the match score (and, above threshold, the MATCHED
// transition with its reason).
func (r *Repository) UpdateJobMatch(ctx context.Context, jobID int64, score float64, reason string, matched bool) error {
	if matched {
		_, err := r.db.Exec(ctx,
			"UPDATE jobs SET match_score = $1, match_reason = $2, status = $3, updated_at = now() WHERE id = $4",
			score, reason, models.JobMatched, jobID)
		return err
	}
	_, err := r.db.Exec(ctx, "UPDATE jobs SET match_score = $1, updated_at = now() WHERE id = $2", score, jobID)
	return err
}

// UpdateJobStatus changes the job state
func (r *Repository) UpdateJobStatus(ctx context.Context, jobID int64, status models.JobStatus) error {
	_, err := r.db.Exec(ctx, "UPDATE jobs SET status = $1, updated_at = now() WHERE id = $2", status, jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}

// ---------------- APPLICATION OPERATIONS ----------------

// InsertApplication records one finalized application attempt.
func (r *Repository) InsertApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	query := `
		INSERT INTO applications (job_id, status, submitted_data, response_data, error_message, retry_count, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		app.JobID, app.Status, app.SubmittedData, app.ResponseData, app.ErrorMessage, app.RetryCount, app.SubmittedAt).
		Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}
	return app, nil
}

// CountApplicationsSince counts submitted applications after the cutoff, used
// to enforce the daily cap.
func (r *Repository) CountApplicationsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM applications WHERE status = $1 AND submitted_at >= $2",
		models.AppSubmitted, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// ---------------- RESUME CACHE ----------------

// GetResumeByHash returns the cached resume text for a file hash, or nil.
func (r *Repository) GetResumeByHash(ctx context.Context, hash string) (*models.ResumeData, error) {
	var data models.ResumeData
	err := r.db.QueryRow(ctx,
		"SELECT id, raw_text, file_path, file_hash, embedding, created_at, updated_at FROM resume_data WHERE file_hash = $1", hash).
		Scan(&data.ID, &data.RawText, &data.FilePath, &data.FileHash, &data.Embedding, &data.CreatedAt, &data.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached resume: %w", err)
	}
	return &data, nil
}

// SaveResume caches extracted resume text keyed by file hash.
func (r *Repository) SaveResume(ctx context.Context, data *models.ResumeData) (*models.ResumeData, error) {
	query := `
		INSERT INTO resume_data (raw_text, file_path, file_hash, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (file_hash)
		DO UPDATE SET raw_text = EXCLUDED.raw_text, file_path = EXCLUDED.file_path, embedding = EXCLUDED.embedding, updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, data.RawText, data.FilePath, data.FileHash, data.Embedding).
		Scan(&data.ID, &data.CreatedAt, &data.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return data, nil
}
