package apply

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"go-apply-agent/internal/browser"
	"go-apply-agent/internal/database"
	"go-apply-agent/internal/models"
)

// Runner drives sessions over a batch of matched jobs, one at a time, and
// writes each attempt's record once the attempt terminates.
type Runner struct {
	repo    *database.Repository
	manager *browser.PlaywrightManager
	session *Session
	maxApps int
}

func NewRunner(repo *database.Repository, manager *browser.PlaywrightManager, session *Session, maxApps int) *Runner {
	return &Runner{repo: repo, manager: manager, session: session, maxApps: maxApps}
}

// Run applies to each job sequentially and returns the per-job results.
// Jobs share nothing at runtime: every attempt gets a fresh browser
// context, and the daily cap is re-checked before each one.
func (r *Runner) Run(ctx context.Context, jobs []*models.Job) ([]Result, error) {
	var results []Result
	for i, job := range jobs {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		applied, err := r.repo.CountApplicationsSince(ctx, time.Now().Add(-24*time.Hour))
		if err != nil {
			return results, fmt.Errorf("failed to check application count: %w", err)
		}
		if applied >= r.maxApps {
			log.Printf("⚠️ Daily application cap reached (%d), stopping", r.maxApps)
			return results, nil
		}

		result := r.applyOne(ctx, job)
		results = append(results, result)
		r.persist(ctx, job, result)

		if i < len(jobs)-1 {
			browser.RandomDelay(3000, 8000)
		}
	}
	return results, nil
}

func (r *Runner) applyOne(ctx context.Context, job *models.Job) Result {
	browserCtx, err := r.manager.NewContext()
	if err != nil {
		return Result{JobID: job.ID, Outcome: OutcomeFailed, Message: fmt.Sprintf("failed to open browser context: %v", err)}
	}
	defer browserCtx.Close()
	return r.session.Apply(ctx, browserCtx, job)
}

// persist writes the attempt record and, on success, advances the job
// status. Persistence failures are logged, never fatal: a lost record must
// not stop the remaining batch.
func (r *Runner) persist(ctx context.Context, job *models.Job, result Result) {
	submitted, err := json.Marshal(result.Answers)
	if err != nil {
		log.Printf("⚠️ Failed to encode answers for job %d: %v", job.ID, err)
	}
	response, err := json.Marshal(map[string]string{
		"attempt_id": result.AttemptID,
		"message":    result.Message,
		"screenshot": result.Screenshot,
	})
	if err != nil {
		log.Printf("⚠️ Failed to encode response payload for job %d: %v", job.ID, err)
	}

	app := &models.Application{
		JobID:         job.ID,
		Status:        applicationStatus(result.Outcome),
		SubmittedData: submitted,
		ResponseData:  response,
	}
	if result.Outcome == OutcomeSuccess {
		now := time.Now()
		app.SubmittedAt = &now
	} else {
		msg := result.Message
		app.ErrorMessage = &msg
	}

	if _, err := r.repo.InsertApplication(ctx, app); err != nil {
		log.Printf("⚠️ Failed to record application for job %d: %v", job.ID, err)
	}
	if result.Outcome == OutcomeSuccess {
		if err := r.repo.UpdateJobStatus(ctx, job.ID, models.JobApplied); err != nil {
			log.Printf("⚠️ Failed to update status for job %d: %v", job.ID, err)
		}
	}
	log.Printf("💾 Recorded %s for job %d", result.Outcome, job.ID)
}

func applicationStatus(outcome Outcome) models.ApplicationStatus {
	switch outcome {
	case OutcomeSuccess:
		return models.AppSubmitted
	case OutcomeSkipped:
		return models.AppSkipped
	default:
		return models.AppFailed
	}
}
