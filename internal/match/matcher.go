package match

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"go-apply-agent/internal/ai"
	"go-apply-agent/internal/database"
	"go-apply-agent/internal/models"
)

// Matcher scores stored jobs against the candidate by embedding similarity
// and promotes the ones above the threshold.
type Matcher struct {
	repo      *database.Repository
	ai        ai.Client
	threshold float64
}

func NewMatcher(repo *database.Repository, client ai.Client, threshold float64) *Matcher {
	return &Matcher{repo: repo, ai: client, threshold: threshold}
}

// MatchAll embeds the candidate once, then scores every NEW job against it.
// Jobs that clear the threshold move to MATCHED with a one-line reason; the
// rest move to REJECTED. It returns the number of matches.
func (m *Matcher) MatchAll(ctx context.Context, profile *models.Profile, resumeText string, limit int) (int, error) {
	candidateText := profile.SummaryText()
	if resumeText != "" {
		candidateText += "\n\n" + resumeText
	}
	candidate, err := m.ai.Embed(ctx, candidateText)
	if err != nil {
		return 0, fmt.Errorf("failed to embed candidate profile: %w", err)
	}

	jobs, err := m.repo.ListJobsByStatus(ctx, models.JobNew, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list new jobs: %w", err)
	}
	log.Printf("🔍 Scoring %d new jobs (threshold %.2f)", len(jobs), m.threshold)

	matched := 0
	for _, job := range jobs {
		if ctx.Err() != nil {
			return matched, ctx.Err()
		}
		score, err := m.scoreJob(ctx, candidate, job)
		if err != nil {
			log.Printf("⚠️ Failed to score job %d (%s): %v", job.ID, job.Title, err)
			continue
		}

		if score < m.threshold {
			if err := m.repo.UpdateJobMatch(ctx, job.ID, score, "", false); err != nil {
				log.Printf("⚠️ Failed to record score for job %d: %v", job.ID, err)
			}
			continue
		}

		reason := m.matchReason(ctx, profile, job, score)
		if err := m.repo.UpdateJobMatch(ctx, job.ID, score, reason, true); err != nil {
			log.Printf("⚠️ Failed to record match for job %d: %v", job.ID, err)
			continue
		}
		matched++
		log.Printf("✅ Matched %q at %s (%.2f)", job.Title, job.Company, score)
	}
	return matched, nil
}

func (m *Matcher) scoreJob(ctx context.Context, candidate []float64, job *models.Job) (float64, error) {
	embedding, err := m.ai.Embed(ctx, jobText(job))
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(candidate, embedding)
}

// matchReason asks the model for a short explanation. A failed call degrades
// to the bare score so matching never depends on the chat endpoint.
func (m *Matcher) matchReason(ctx context.Context, profile *models.Profile, job *models.Job, score float64) string {
	system, user := ai.BuildMatchReasonPrompts(profile, job, score)
	reason, err := m.ai.Complete(ctx, system, user)
	if err != nil {
		log.Printf("⚠️ Match reason generation failed for job %d: %v", job.ID, err)
		return fmt.Sprintf("Similarity score %.2f", score)
	}
	return strings.TrimSpace(reason)
}

func jobText(job *models.Job) string {
	var b strings.Builder
	b.WriteString(job.Title)
	b.WriteString(" at ")
	b.WriteString(job.Company)
	if job.Location != "" {
		b.WriteString("\nLocation: " + job.Location)
	}
	if job.Description != "" {
		desc := job.Description
		if len(desc) > 2000 {
			desc = desc[:2000]
		}
		b.WriteString("\n" + desc)
	}
	if job.Requirements != "" {
		b.WriteString("\nRequirements: " + job.Requirements)
	}
	return b.String()
}

// CosineSimilarity returns the cosine of the angle between two vectors.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
