package ai

import (
	"context"
	"fmt"
	"strings"

	"go-apply-agent/internal/models"
)

// Client is the interface for AI providers
type Client interface {
	// Complete sends a system instruction and user prompt and returns the
	// model's text response.
	Complete(ctx context.Context, system, user string) (string, error)

	// Embed returns the embedding vector for a text.
	Embed(ctx context.Context, text string) ([]float64, error)
}

// buildAnswerSystemPrompt creates the system instruction for answering one
// application question. The length constraint depends on the field kind.
func buildAnswerSystemPrompt(kind string, options []string) string {
	var b strings.Builder
	b.WriteString(`You are helping fill out a job application. Answer questions concisely and professionally based only on the candidate information provided.
Do not invent dates, numbers, or employer names. If the information is insufficient, use soft qualifiers instead of making up facts.
`)

	switch {
	case len(options) > 0:
		b.WriteString("Respond with EXACTLY one of the provided options, verbatim. Output nothing else.\n")
	case kind == "textarea":
		b.WriteString("Write 200-300 words.\n")
	default:
		b.WriteString(`For yes/no questions, answer with just "Yes" or "No". Otherwise keep the answer under 100 words.` + "\n")
	}

	return b.String()
}

// buildAnswerUserPrompt combines the grounding context, question, and options.
func buildAnswerUserPrompt(profile *models.Profile, question string, options []string) string {
	var b strings.Builder
	b.WriteString("Candidate Context:\n")
	b.WriteString(profile.SummaryText())
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	if len(options) > 0 {
		b.WriteString("\n\nAvailable options:\n")
		for _, opt := range options {
			b.WriteString("- " + opt + "\n")
		}
	}
	b.WriteString("\nProvide a professional answer suitable for a job application.")
	return b.String()
}

// BuildAnswerPrompts exposes the answer prompt pair for the resolver.
func BuildAnswerPrompts(profile *models.Profile, question, kind string, options []string) (string, string) {
	return buildAnswerSystemPrompt(kind, options), buildAnswerUserPrompt(profile, question, options)
}

// BuildMatchReasonPrompts builds the prompts for a one-line match explanation.
func BuildMatchReasonPrompts(profile *models.Profile, job *models.Job, score float64) (string, string) {
	system := "You are a career advisor. Explain in 1-2 sentences why a candidate is a good match for a job."

	desc := job.Description
	if len(desc) > 500 {
		desc = desc[:500]
	}
	user := fmt.Sprintf(`Based on the candidate profile and job posting below, explain why this is a good match (similarity score: %.2f).

CANDIDATE:
%s

JOB:
Title: %s
Company: %s
Location: %s
Description: %s

Provide a concise, specific reason focusing on relevant skills or experience.`,
		score, profile.SummaryText(), job.Title, job.Company, job.Location, desc)

	return system, user
}
