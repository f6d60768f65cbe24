package apply

import (
	"sort"
	"strings"
)

// Rule maps a question substring to a fixed answer. Patterns are matched
// case-insensitively against the question text; the first hit wins, so more
// specific patterns must sit above their generic prefixes.
type Rule struct {
	Pattern string
	Answer  string
}

var defaultRules = []Rule{
	{"conflict of interest", "No"},
	{"worked here before", "No"},
	{"previously worked", "No"},
	{"previously been employed", "No"},
	{"authorized to work", "Yes"},
	{"legally authorized", "Yes"},
	{"work authorization", "Yes"},
	{"require sponsorship", "No"},
	{"visa sponsorship", "No"},
	{"sponsorship", "No"},
	{"security clearance", "No"},
	{"u.s. person", "Yes"},
	{"export control", "Yes"},
	{"convicted", "No"},
	{"felony", "No"},
	{"criminal", "No"},
	{"referred by", "No"},
	{"referral", "No"},
	{"18 years", "Yes"},
	{"certify", "Yes"},
	{"agree to", "Yes"},
	{"relocat", "Yes"},
	{"how did you hear", "Corporate Website"},
	{"hear about", "Corporate Website"},
	{"find this job", "Corporate Website"},
	{"please specify", "Corporate Website"},
	{"gender identity", "Decline to self-identify"},
	{"gender", "Decline to self-identify"},
	{"transgender", "Decline to self-identify"},
	{"sexual orientation", "Decline to self-identify"},
	{"pronouns", "Decline to self-identify"},
	{"hispanic or latino", "Decline to self-identify"},
	{"ethnicity", "Decline to self-identify"},
	{"race", "Decline to self-identify"},
	{"veteran", "I am not a protected veteran"},
	{"disability", "I do not wish to answer"},
}

// BuildRules prepends user-configured overrides to the built-in table so a
// config entry always beats the default for the same pattern.
func BuildRules(overrides map[string]string) []Rule {
	rules := make([]Rule, 0, len(overrides)+len(defaultRules))
	patterns := make([]string, 0, len(overrides))
	for pattern := range overrides {
		patterns = append(patterns, pattern)
	}
	//longest pattern first, so a specific override beats its own prefix
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	for _, pattern := range patterns {
		rules = append(rules, Rule{Pattern: strings.ToLower(pattern), Answer: overrides[pattern]})
	}
	rules = append(rules, defaultRules...)
	return rules
}

func matchRule(rules []Rule, question string) (string, bool) {
	q := strings.ToLower(question)
	for _, r := range rules {
		if strings.Contains(q, r.Pattern) {
			return r.Answer, true
		}
	}
	return "", false
}
