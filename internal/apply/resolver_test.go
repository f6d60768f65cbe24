package apply

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-apply-agent/internal/models"
)

type stubAI struct {
	completions int
	answer      string
	err         error
}

func (s *stubAI) Complete(ctx context.Context, system, user string) (string, error) {
	s.completions++
	return s.answer, s.err
}

func (s *stubAI) Embed(ctx context.Context, text string) ([]float64, error) {
	return nil, errors.New("not implemented")
}

func testProfile() *models.Profile {
	return &models.Profile{
		Contact: models.Contact{
			FirstName: "Ada",
			LastName:  "Tran",
			Email:     "ada@example.com",
			Phone:     "555-0100",
			LinkedIn:  "https://linkedin.com/in/adatran",
		},
		Education: models.EducationInfo{
			School: "Georgia Institute of Technology",
			Degree: "BS",
			Major:  "Computer Science",
		},
	}
}

func newTestResolver(stub *stubAI, overrides map[string]string) *Resolver {
	return NewResolver(testProfile(), BuildRules(overrides), stub)
}

func TestResolveRuleTableSkipsModel(t *testing.T) {
	stub := &stubAI{answer: "should never be used"}
	resolver := newTestResolver(stub, nil)

	cases := []struct {
		question string
		want     string
	}{
		{"Are you legally authorized to work in the United States?", "Yes"},
		{"Will you now or in the future require sponsorship for employment visa status?", "No"},
		{"Have you ever been convicted of a felony?", "No"},
		{"Do you have a conflict of interest with any current employee?", "No"},
		{"How did you hear about this opportunity?", "Corporate Website"},
		{"Are you at least 18 years of age?", "Yes"},
		{"Veteran Status", "I am not a protected veteran"},
		{"Disability Status", "I do not wish to answer"},
	}
	for _, tc := range cases {
		answer := resolver.Resolve(context.Background(), Descriptor{Kind: KindText, Label: tc.question})
		assert.Equal(t, tc.want, answer, "question: %s", tc.question)
	}
	assert.Zero(t, stub.completions, "deterministic questions must not reach the model")
}

func TestResolveOverrideBeatsDefault(t *testing.T) {
	stub := &stubAI{}
	resolver := newTestResolver(stub, map[string]string{
		"visa sponsorship": "Yes",
	})

	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:  KindText,
		Label: "Do you require visa sponsorship?",
	})
	assert.Equal(t, "Yes", answer)
	assert.Zero(t, stub.completions)
}

func TestResolveProfileFacts(t *testing.T) {
	stub := &stubAI{}
	resolver := newTestResolver(stub, nil)

	answer := resolver.Resolve(context.Background(), Descriptor{Kind: KindText, Label: "LinkedIn Profile URL"})
	assert.Equal(t, "https://linkedin.com/in/adatran", answer)

	answer = resolver.Resolve(context.Background(), Descriptor{Kind: KindText, Label: "School or University attended"})
	assert.Equal(t, "Georgia Institute of Technology", answer)

	//no portfolio on the profile resolves to a deliberate blank, not a guess
	answer = resolver.Resolve(context.Background(), Descriptor{Kind: KindText, Label: "Portfolio website"})
	assert.Empty(t, answer)
	assert.Zero(t, stub.completions)
}

func TestResolveCountryPicksUSVariant(t *testing.T) {
	resolver := newTestResolver(&stubAI{}, nil)

	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:    KindSelect,
		Label:   "Country of Residence",
		Options: []string{"Canada", "United States of America", "Mexico"},
	})
	assert.Equal(t, "United States of America", answer)
}

func TestResolveSchoolAgainstOptions(t *testing.T) {
	resolver := newTestResolver(&stubAI{}, nil)

	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:    KindFakeDropdown,
		Label:   "School / University",
		Options: []string{"Stanford University", "Georgia Institute of Technology - Main Campus", "Other"},
	})
	assert.Equal(t, "Georgia Institute of Technology - Main Campus", answer)
}

func TestResolveClearanceOptions(t *testing.T) {
	resolver := newTestResolver(&stubAI{}, nil)

	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:    KindSelect,
		Label:   "Do you hold an active security clearance?",
		Options: []string{"No clearance", "Secret", "Top Secret"},
	})
	assert.Equal(t, "No clearance", answer)

	//eligibility questions flip to the affirmative option
	answer = resolver.Resolve(context.Background(), Descriptor{
		Kind:    KindSelect,
		Label:   "Are you eligible to obtain a security clearance?",
		Options: []string{"Yes", "No"},
	})
	assert.Equal(t, "Yes", answer)
}

func TestResolveDemographicsDecline(t *testing.T) {
	resolver := newTestResolver(&stubAI{}, nil)

	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:    KindSelect,
		Label:   "Gender Identity",
		Options: []string{"Man", "Woman", "Non-binary", "Decline to self-identify"},
	})
	assert.Equal(t, "Decline to self-identify", answer)
}

func TestResolveMapsRuleAnswerOntoOptions(t *testing.T) {
	resolver := newTestResolver(&stubAI{}, nil)

	//exact case-insensitive match
	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:    KindSelect,
		Label:   "Are you authorized to work in the US?",
		Options: []string{"YES", "NO"},
	})
	assert.Equal(t, "YES", answer)

	//abbreviated options
	answer = resolver.Resolve(context.Background(), Descriptor{
		Kind:    KindSelect,
		Label:   "Do you require visa sponsorship?",
		Options: []string{"Y", "N"},
	})
	assert.Equal(t, "N", answer)
}

func TestResolveGenerativeFallback(t *testing.T) {
	stub := &stubAI{answer: "I led the migration of a monolith to Go services."}
	resolver := newTestResolver(stub, nil)

	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:  KindTextarea,
		Label: "Tell us about a project you are proud of",
	})
	assert.Equal(t, stub.answer, answer)
	assert.Equal(t, 1, stub.completions)
}

func TestResolveGenerativeErrorDegrades(t *testing.T) {
	stub := &stubAI{err: errors.New("rate limited")}
	resolver := newTestResolver(stub, nil)

	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:  KindTextarea,
		Label: "Why are you interested in this role?",
	})
	assert.Equal(t, genericFallback, answer)
}

func TestResolveNilClientDegrades(t *testing.T) {
	resolver := NewResolver(testProfile(), BuildRules(nil), nil)

	answer := resolver.Resolve(context.Background(), Descriptor{
		Kind:  KindText,
		Label: "Anything else we should know?",
	})
	assert.Equal(t, genericFallback, answer)
}

func TestClampAnswer(t *testing.T) {
	long := strings.Repeat("word ", 200)
	clamped := clampAnswer(long, KindText)
	require.LessOrEqual(t, len(clamped), 300)
	assert.False(t, strings.HasSuffix(clamped, " "), "clamp should cut on a word boundary")

	assert.Equal(t, "short", clampAnswer("short", KindTextarea))
}
