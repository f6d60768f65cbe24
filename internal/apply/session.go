package apply

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"go-apply-agent/internal/browser"
	"go-apply-agent/internal/models"
	"go-apply-agent/utils"
)

// Outcome is the terminal state of one application attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeSkipped Outcome = "SKIPPED"
)

// Result captures everything one attempt produced. It stays in memory until
// the attempt terminates; persistence happens exactly once, afterwards.
type Result struct {
	AttemptID  string
	JobID      int64
	Outcome    Outcome
	Message    string
	Answers    []models.AnswerRecord
	Screenshot string
}

// Session runs one application attempt end to end: navigate, classify,
// resolve, review, fill, submit, classify the outcome.
type Session struct {
	resolver   *Resolver
	dropdown   *DropdownDriver
	review     ReviewGate // nil disables the review pause
	shots      *utils.ScreenShotDebugger
	profile    *models.Profile
	resumePath string
	navTimeout time.Duration
	settle     time.Duration
}

func NewSession(resolver *Resolver, dropdown *DropdownDriver, review ReviewGate, shots *utils.ScreenShotDebugger, profile *models.Profile, resumePath string, navTimeout, settle time.Duration) *Session {
	return &Session{
		resolver:   resolver,
		dropdown:   dropdown,
		review:     review,
		shots:      shots,
		profile:    profile,
		resumePath: resumePath,
		navTimeout: navTimeout,
		settle:     settle,
	}
}

// Apply attempts the application for job inside browserCtx. It never
// panics out: every failure collapses into a FAILED or SKIPPED result.
func (s *Session) Apply(ctx context.Context, browserCtx playwright.BrowserContext, job *models.Job) Result {
	result := Result{AttemptID: uuid.NewString(), JobID: job.ID, Outcome: OutcomeFailed}
	log.Printf("📋 Applying to %q at %s [%s]", job.Title, job.Company, result.AttemptID)

	page, err := browserCtx.NewPage()
	if err != nil {
		result.Message = fmt.Sprintf("failed to open page: %v", err)
		return result
	}
	defer page.Close()

	if _, err := page.Goto(job.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.navTimeout.Milliseconds())),
	}); err != nil {
		result.Message = fmt.Sprintf("navigation failed: %v", err)
		s.capture(page, "nav_error", job.ID, &result)
		return result
	}
	browser.Settle(s.settle)

	s.clickApplyButton(page)
	s.fillStandardFields(page)

	descriptors := ClassifyForm(page)
	byField := make(map[string]Descriptor, len(descriptors))
	answers := make([]models.AnswerRecord, 0, len(descriptors))
	for _, desc := range descriptors {
		if ctx.Err() != nil {
			result.Outcome = OutcomeSkipped
			result.Message = "cancelled"
			return result
		}
		byField[desc.StableID] = desc
		answers = append(answers, models.AnswerRecord{
			Field:    desc.StableID,
			Question: desc.Label,
			Answer:   s.resolver.Resolve(ctx, desc),
			Kind:     desc.Kind.String(),
		})
	}
	result.Answers = answers

	if s.review != nil {
		decision, err := s.review.Review(ctx, browserCtx, job, answers)
		if err != nil {
			result.Outcome = OutcomeSkipped
			result.Message = fmt.Sprintf("review unavailable: %v", err)
			return result
		}
		if !decision.Approved {
			result.Outcome = OutcomeSkipped
			result.Message = "rejected during review"
			return result
		}
		answers = applyEdits(answers, decision.Edited)
		result.Answers = answers
	}

	s.fillAnswers(page, byField, answers)
	s.capture(page, "presubmit", job.ID, &result)

	if msg, ok := s.submit(page); !ok {
		result.Message = msg
		s.capture(page, "submit_error", job.ID, &result)
		return result
	}
	browser.Settle(s.settle)

	outcome, message := classifySubmission(visibleValidationErrors(page), bodyText(page))
	result.Outcome = outcome
	result.Message = message
	s.capture(page, strings.ToLower(string(outcome)), job.ID, &result)

	if outcome == OutcomeSuccess {
		log.Printf("✅ Submitted application for %q", job.Title)
	} else {
		log.Printf("❌ Application for %q ended %s: %s", job.Title, outcome, message)
	}
	return result
}

// clickApplyButton moves from a posting page to its embedded form. Listings
// that land directly on the form simply have no such button.
func (s *Session) clickApplyButton(page playwright.Page) {
	button := page.Locator(`a:has-text("Apply"), button:has-text("Apply")`).First()
	count, err := button.Count()
	if err != nil || count == 0 {
		return
	}
	if visible, err := button.IsVisible(); err != nil || !visible {
		return
	}
	if err := button.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(3000)}); err == nil {
		browser.Settle(s.settle)
	}
}

// fillStandardFields covers the contact block every platform renders with
// predictable names. Each field is best effort.
func (s *Session) fillStandardFields(page playwright.Page) {
	fields := []struct {
		selector string
		value    string
	}{
		{`#first_name, input[name*="first_name"]`, s.profile.Contact.FirstName},
		{`#last_name, input[name*="last_name"]`, s.profile.Contact.LastName},
		{`#email, input[name*="email"]`, s.profile.Contact.Email},
		{`#phone, input[name*="phone"]`, s.profile.Contact.Phone},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		input := page.Locator(f.selector).First()
		if count, err := input.Count(); err != nil || count == 0 {
			continue
		}
		if err := input.Fill(f.value); err != nil {
			log.Printf("⚠️ Failed to fill standard field %s: %v", f.selector, err)
		}
	}

	if s.resumePath != "" {
		upload := page.Locator(`input[type="file"]`).First()
		if count, err := upload.Count(); err == nil && count > 0 {
			if err := upload.SetInputFiles(s.resumePath); err != nil {
				log.Printf("⚠️ Resume upload failed: %v", err)
			} else {
				log.Println("✅ Resume attached")
				browser.Settle(s.settle)
			}
		}
	}
}

// fillAnswers writes resolved answers into the form with the strategy each
// kind requires. An empty answer skips its field; a failed fill is logged
// and the pass continues.
func (s *Session) fillAnswers(page playwright.Page, byField map[string]Descriptor, answers []models.AnswerRecord) {
	for _, record := range answers {
		if record.Answer == "" {
			continue
		}
		desc, ok := byField[record.Field]
		if !ok {
			continue
		}
		switch desc.Kind {
		case KindSelect:
			s.fillSelect(page, desc, record.Answer)
		case KindFakeDropdown:
			if !s.dropdown.Select(page, desc, record.Answer) {
				log.Printf("⚠️ Dropdown fill failed for %q", desc.Label)
			}
		default:
			field := page.Locator(desc.Selector).First()
			if err := field.Fill(record.Answer); err != nil {
				log.Printf("⚠️ Failed to fill %q: %v", desc.Label, err)
			}
		}
		browser.RandomDelay(200, 600)
	}
}

// fillSelect picks a native option by label, falling back to an "Other"
// entry when the resolved answer is not on the list.
func (s *Session) fillSelect(page playwright.Page, desc Descriptor, answer string) {
	field := page.Locator(desc.Selector).First()
	_, err := field.SelectOption(playwright.SelectOptionValues{Labels: &[]string{answer}})
	if err == nil {
		return
	}
	for _, opt := range desc.Options {
		if strings.Contains(strings.ToLower(opt), "other") {
			if _, err := field.SelectOption(playwright.SelectOptionValues{Labels: &[]string{opt}}); err == nil {
				log.Printf("⚠️ Answer %q not in options for %q, selected %q", answer, desc.Label, opt)
				return
			}
		}
	}
	log.Printf("⚠️ Failed to select %q for %q: %v", answer, desc.Label, err)
}

func (s *Session) submit(page playwright.Page) (string, bool) {
	button := page.Locator(`#submit_app, button[type="submit"], input[type="submit"], button:has-text("Submit")`).First()
	count, err := button.Count()
	if err != nil || count == 0 {
		return "submit button not found", false
	}
	browser.ScrollIntoView(button)
	if err := button.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)}); err != nil {
		return fmt.Sprintf("submit click failed: %v", err), false
	}
	return "", true
}

func visibleValidationErrors(page playwright.Page) []string {
	elements, err := page.Locator(`.field-error, .field-error-msg, [role="alert"]`).All()
	if err != nil {
		return nil
	}
	var errors []string
	for _, el := range elements {
		if visible, err := el.IsVisible(); err != nil || !visible {
			continue
		}
		text, err := el.InnerText()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			errors = append(errors, text)
		}
	}
	return errors
}

func bodyText(page playwright.Page) string {
	text, err := page.Locator("body").InnerText()
	if err != nil {
		return ""
	}
	return text
}

var successPhrases = []string{
	"thank you for applying",
	"thank you for your application",
	"application has been submitted",
	"application was submitted",
	"application received",
	"we have received your application",
	"successfully submitted",
}

// classifySubmission reads the page state after a submit click. Visible
// validation errors always mean failure; otherwise the body must contain a
// known confirmation phrase. A page that shows neither is treated as a
// failure so an unconfirmed submission is never recorded as a success.
func classifySubmission(validationErrors []string, body string) (Outcome, string) {
	if len(validationErrors) > 0 {
		return OutcomeFailed, "validation errors: " + strings.Join(validationErrors, "; ")
	}
	lower := strings.ToLower(body)
	for _, phrase := range successPhrases {
		if strings.Contains(lower, phrase) {
			return OutcomeSuccess, "application submitted"
		}
	}
	return OutcomeFailed, "no confirmation detected after submit"
}

func (s *Session) capture(page playwright.Page, label string, jobID int64, result *Result) {
	if s.shots == nil {
		return
	}
	if path, err := s.shots.Capture(page, label, jobID); err == nil {
		result.Screenshot = path
	}
}
