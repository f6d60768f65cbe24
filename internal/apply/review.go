package apply

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-apply-agent/internal/models"
)

// ReviewDecision is the human verdict on a prepared application.
type ReviewDecision struct {
	Approved bool
	Edited   map[string]string // stable field id -> replacement answer
}

// ReviewGate pauses an application between answer resolution and form fill
// so a human can approve, edit, or reject the prepared answers.
type ReviewGate interface {
	Review(ctx context.Context, browserCtx playwright.BrowserContext, job *models.Job, answers []models.AnswerRecord) (ReviewDecision, error)
}

// BrowserReviewGate renders the answers as an editable HTML page in the
// automation browser and polls for the buttons' verdict.
type BrowserReviewGate struct {
	Timeout time.Duration
	poll    time.Duration
}

func NewBrowserReviewGate(timeout time.Duration) *BrowserReviewGate {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &BrowserReviewGate{Timeout: timeout, poll: 500 * time.Millisecond}
}

var reviewTemplate = template.Must(template.New("review").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Review Application</title>
<style>
  body { font-family: -apple-system, sans-serif; margin: 24px; background: #f5f5f5; }
  h1 { font-size: 20px; }
  .meta { color: #555; margin-bottom: 16px; }
  .field { background: #fff; border: 1px solid #ddd; border-radius: 6px; padding: 12px; margin-bottom: 10px; }
  .field label { display: block; font-weight: 600; margin-bottom: 6px; }
  .field textarea { width: 100%; min-height: 48px; font: inherit; box-sizing: border-box; }
  .actions { position: sticky; bottom: 0; background: #f5f5f5; padding: 12px 0; }
  button { font-size: 15px; padding: 10px 24px; border-radius: 6px; border: none; cursor: pointer; }
  #approve { background: #1a7f37; color: #fff; margin-right: 12px; }
  #reject { background: #cf222e; color: #fff; }
</style>
</head>
<body>
<h1>Review: {{.Job.Title}}</h1>
<div class="meta">{{.Job.Company}} &middot; <a href="{{.Job.URL}}">{{.Job.URL}}</a></div>
{{range .Answers}}
<div class="field">
  <label>{{.Question}}</label>
  <textarea data-field="{{.Field}}">{{.Answer}}</textarea>
</div>
{{end}}
<div class="actions">
  <button id="approve">Approve &amp; Submit</button>
  <button id="reject">Skip This Job</button>
</div>
<script>
  function collect() {
    const updated = {};
    document.querySelectorAll('textarea[data-field]').forEach(t => {
      updated[t.dataset.field] = t.value;
    });
    return updated;
  }
  document.getElementById('approve').onclick = () => {
    window.userDecision = { approved: true, updatedData: collect() };
  };
  document.getElementById('reject').onclick = () => {
    window.userDecision = { approved: false, updatedData: {} };
  };
</script>
</body>
</html>`))

// Review writes the review page to a temp file, opens it in a fresh tab and
// polls window.userDecision until a button is pressed or the timeout lapses.
// A timeout counts as rejection: silence must never submit a form.
func (g *BrowserReviewGate) Review(ctx context.Context, browserCtx playwright.BrowserContext, job *models.Job, answers []models.AnswerRecord) (ReviewDecision, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("review_%d_%d.html", job.ID, time.Now().UnixNano()))
	file, err := os.Create(path)
	if err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to create review page: %w", err)
	}
	data := struct {
		Job     *models.Job
		Answers []models.AnswerRecord
	}{job, answers}
	if err := reviewTemplate.Execute(file, data); err != nil {
		file.Close()
		return ReviewDecision{}, fmt.Errorf("failed to render review page: %w", err)
	}
	file.Close()
	defer os.Remove(path)

	page, err := browserCtx.NewPage()
	if err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to open review tab: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto("file://" + path); err != nil {
		return ReviewDecision{}, fmt.Errorf("failed to load review page: %w", err)
	}

	log.Printf("📋 Waiting for review of %q (timeout %s)", job.Title, g.Timeout)
	deadline := time.Now().Add(g.Timeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return ReviewDecision{Approved: false}, nil
		}
		raw, err := page.Evaluate("window.userDecision")
		if err == nil && raw != nil {
			return parseDecision(raw), nil
		}
		time.Sleep(g.poll)
	}

	log.Printf("⚠️ Review timed out after %s, treating as rejection", g.Timeout)
	return ReviewDecision{Approved: false}, nil
}

func parseDecision(raw interface{}) ReviewDecision {
	decision := ReviewDecision{Edited: make(map[string]string)}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return decision
	}
	if approved, ok := obj["approved"].(bool); ok {
		decision.Approved = approved
	}
	if updated, ok := obj["updatedData"].(map[string]interface{}); ok {
		for field, value := range updated {
			if s, ok := value.(string); ok {
				decision.Edited[field] = s
			}
		}
	}
	return decision
}

// applyEdits folds reviewer edits back into the answer list. An edit to an
// empty string blanks the field.
func applyEdits(answers []models.AnswerRecord, edited map[string]string) []models.AnswerRecord {
	if len(edited) == 0 {
		return answers
	}
	out := make([]models.AnswerRecord, len(answers))
	copy(out, answers)
	for i := range out {
		if replacement, ok := edited[out[i].Field]; ok {
			out[i].Answer = replacement
		}
	}
	return out
}
