package apply

import (
	"context"
	"log"
	"strings"
	"time"

	"go-apply-agent/internal/ai"
	"go-apply-agent/internal/models"
)

// genericFallback is returned when every resolution path, including the
// generative one, fails. It is safe for any free-text question.
const genericFallback = "I am very interested in this position and believe my background aligns well with the requirements."

const generateTimeout = 30 * time.Second

// Resolver turns a classified question into an answer string. Resolution
// never returns an error: an empty answer means the field is deliberately
// left blank.
type Resolver struct {
	profile *models.Profile
	rules   []Rule
	ai      ai.Client
}

func NewResolver(profile *models.Profile, rules []Rule, client ai.Client) *Resolver {
	return &Resolver{profile: profile, rules: rules, ai: client}
}

// Resolve walks the resolution chain in order: profile facts, the static
// rule table, option heuristics, then the generative fallback. The first
// match wins, so cheap deterministic paths shield the model call.
func (r *Resolver) Resolve(ctx context.Context, desc Descriptor) string {
	question := desc.Label

	if answer, ok := r.profileFact(question, desc.Options); ok {
		return answer
	}

	if len(desc.Options) > 0 {
		if answer, ok := r.resolveAgainstOptions(question, desc.Options); ok {
			return answer
		}
	} else if answer, ok := matchRule(r.rules, question); ok {
		return answer
	}

	return r.generate(ctx, desc)
}

// profileFact answers directly from loaded profile data. A recognized
// question with no profile value resolves to an empty answer, not to the
// generative path: inventing a LinkedIn URL is worse than leaving it blank.
func (r *Resolver) profileFact(question string, options []string) (string, bool) {
	q := strings.ToLower(question)

	if len(options) == 0 && containsAny(q, "school", "university", "college", "institution") {
		return r.profile.Education.School, true
	}
	if strings.Contains(q, "linkedin") {
		return r.profile.Contact.LinkedIn, true
	}
	if containsAny(q, "website", "portfolio", "github") {
		return r.profile.Contact.Website, true
	}
	if containsAny(q, "salary", "compensation") {
		return r.profile.Preferences["salary"], true
	}
	return "", false
}

// resolveAgainstOptions handles selects and fake dropdowns, where the answer
// must name one of the rendered options.
func (r *Resolver) resolveAgainstOptions(question string, options []string) (string, bool) {
	q := strings.ToLower(question)

	//country questions pick the US variant whatever the site calls it
	if strings.Contains(q, "country") {
		for _, opt := range options {
			if strings.Contains(strings.ToLower(opt), "united states") {
				return opt, true
			}
		}
	}

	//school selects match the profile institution against option texts
	if containsAny(q, "school", "university", "college", "institution") {
		school := strings.ToLower(r.profile.Education.School)
		if school != "" {
			for _, opt := range options {
				o := strings.ToLower(opt)
				if strings.Contains(o, school) || strings.Contains(school, o) {
					return opt, true
				}
			}
		}
	}

	//clearance questions prefer no clearance, unless they ask about eligibility
	if strings.Contains(q, "clearance") {
		if strings.Contains(q, "eligib") {
			for _, opt := range options {
				o := strings.ToLower(opt)
				if strings.Contains(o, "yes") || strings.Contains(o, "eligible") {
					return opt, true
				}
			}
		}
		for _, opt := range options {
			o := strings.ToLower(opt)
			if strings.Contains(o, "no ") || strings.Contains(o, "none") || o == "no" {
				return opt, true
			}
		}
	}

	//demographic questions take the decline-to-state option when offered
	if containsAny(q, "gender", "race", "ethnicity", "veteran", "disability", "hispanic", "orientation", "pronouns") {
		for _, opt := range options {
			o := strings.ToLower(opt)
			if containsAny(o, "decline", "don't wish", "do not wish", "prefer not") {
				return opt, true
			}
		}
	}

	if answer, ok := matchRule(r.rules, question); ok {
		return mapToOption(answer, options), true
	}
	return "", false
}

// mapToOption aligns a fixed rule answer with the rendered option texts:
// exact case-insensitive match first, then Yes/No abbreviations. When
// nothing aligns the raw answer goes through and the fill layer handles it.
func mapToOption(answer string, options []string) string {
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), answer) {
			return opt
		}
	}
	abbrev := map[string]string{"yes": "y", "no": "n"}
	if short, ok := abbrev[strings.ToLower(answer)]; ok {
		for _, opt := range options {
			if strings.EqualFold(strings.TrimSpace(opt), short) {
				return opt
			}
		}
	}
	return answer
}

// generate asks the model for an answer no deterministic path could produce.
// Any failure degrades to the generic fallback so one flaky call never
// aborts an application.
func (r *Resolver) generate(ctx context.Context, desc Descriptor) string {
	if r.ai == nil {
		return genericFallback
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	system, user := ai.BuildAnswerPrompts(r.profile, desc.Label, desc.Kind.String(), desc.Options)
	answer, err := r.ai.Complete(ctx, system, user)
	if err != nil {
		log.Printf("⚠️ Generative answer failed for %q: %v", desc.Label, err)
		return genericFallback
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return genericFallback
	}
	return clampAnswer(answer, desc.Kind)
}

// clampAnswer bounds generated text so an over-long completion never
// overflows a single-line input.
func clampAnswer(answer string, kind FieldKind) string {
	limit := 300
	if kind == KindTextarea {
		limit = 3000
	}
	if len(answer) <= limit {
		return answer
	}
	cut := answer[:limit]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
