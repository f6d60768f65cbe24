package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-apply-agent/internal/models"
)

func TestClassifySubmission(t *testing.T) {
	cases := []struct {
		name        string
		errors      []string
		body        string
		wantOutcome Outcome
	}{
		{
			name:        "confirmation phrase",
			body:        "Thank you for applying to Acme Corp. We will review your application.",
			wantOutcome: OutcomeSuccess,
		},
		{
			name:        "validation error wins over body",
			errors:      []string{"Email is required"},
			body:        "Thank you for applying",
			wantOutcome: OutcomeFailed,
		},
		{
			name:        "ambiguous page is a failure",
			body:        "Acme Corp. Open Positions. Engineering.",
			wantOutcome: OutcomeFailed,
		},
		{
			name:        "empty body is a failure",
			body:        "",
			wantOutcome: OutcomeFailed,
		},
		{
			name:        "case insensitive confirmation",
			body:        "APPLICATION RECEIVED. You're all set!",
			wantOutcome: OutcomeSuccess,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, message := classifySubmission(tc.errors, tc.body)
			assert.Equal(t, tc.wantOutcome, outcome)
			assert.NotEmpty(t, message)
		})
	}
}

func TestClassifySubmissionQuotesErrors(t *testing.T) {
	outcome, message := classifySubmission([]string{"Email is required", "Resume is required"}, "")
	assert.Equal(t, OutcomeFailed, outcome)
	assert.Contains(t, message, "Email is required")
	assert.Contains(t, message, "Resume is required")
}

func TestApplicationStatus(t *testing.T) {
	assert.Equal(t, models.AppSubmitted, applicationStatus(OutcomeSuccess))
	assert.Equal(t, models.AppSkipped, applicationStatus(OutcomeSkipped))
	assert.Equal(t, models.AppFailed, applicationStatus(OutcomeFailed))
}

func TestApplyEdits(t *testing.T) {
	answers := []models.AnswerRecord{
		{Field: "question_1", Question: "Why us?", Answer: "Original answer"},
		{Field: "question_2", Question: "Salary", Answer: "100k"},
	}

	edited := applyEdits(answers, map[string]string{
		"question_1": "Edited answer",
		"question_2": "",
	})
	require.Len(t, edited, 2)
	assert.Equal(t, "Edited answer", edited[0].Answer)
	assert.Empty(t, edited[1].Answer, "an edit to empty blanks the field")

	//original slice must stay untouched
	assert.Equal(t, "Original answer", answers[0].Answer)

	same := applyEdits(answers, nil)
	assert.Equal(t, answers, same)
}

func TestParseDecision(t *testing.T) {
	decision := parseDecision(map[string]interface{}{
		"approved": true,
		"updatedData": map[string]interface{}{
			"question_1": "new text",
			"ignored":    42,
		},
	})
	assert.True(t, decision.Approved)
	assert.Equal(t, "new text", decision.Edited["question_1"])
	assert.NotContains(t, decision.Edited, "ignored")

	decision = parseDecision("garbage")
	assert.False(t, decision.Approved)
}
