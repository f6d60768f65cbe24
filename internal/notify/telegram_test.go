package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSummary(t *testing.T) {
	summary := RunSummary{
		Scraped:   12,
		Matched:   4,
		Submitted: 1,
		Attempts: []AttemptSummary{
			{JobTitle: "Backend Engineer", Company: "Acme", URL: "https://example.com/1", Outcome: "SUCCESS"},
			{JobTitle: "Platform Engineer", Company: "Initech", URL: "https://example.com/2", Outcome: "FAILED", Message: "no confirmation detected after submit"},
			{JobTitle: "SRE", Company: "Vandelay", URL: "https://example.com/3", Outcome: "SKIPPED", Message: "rejected during review"},
		},
	}

	text := formatSummary(summary)
	assert.Contains(t, text, "Scraped: 12 | Matched: 4 | Submitted: 1/3")
	assert.Contains(t, text, "✅")
	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "no confirmation detected after submit")
	assert.Contains(t, text, "rejected during review")
	//success rows skip the detail line
	assert.NotContains(t, text, "SUCCESS\n    ")
}
