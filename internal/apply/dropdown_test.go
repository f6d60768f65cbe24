package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOption(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"United-States", "united states"},
		{"united_states_of_america", "united states of america"},
		{"  Mixed   Spacing  ", "mixed spacing"},
		{"São Paulo", "sao paulo"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeOption(tc.in), "input: %q", tc.in)
	}
}

func TestOptionMatches(t *testing.T) {
	cases := []struct {
		name   string
		answer string
		option string
		want   bool
	}{
		{"exact", "Yes", "Yes", true},
		{"case and separators", "united-states", "United_States", true},
		{"answer contained in option", "United States", "United States of America", true},
		{"option contained in answer", "United States of America", "United States", true},
		{"word overlap meets threshold", "Bachelor of Science Degree", "Science Bachelor Program Degree", true},
		{"single shared word below threshold", "Master of Engineering", "Doctor of Philosophy", false},
		{"unrelated", "Canada", "Germany", false},
		{"empty answer", "", "Anything", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, optionMatches(tc.answer, tc.option))
		})
	}
}

func TestOptionMatchesThresholdCapsAtThree(t *testing.T) {
	//a long answer needs only three shared words, not len-1
	answer := "Senior Staff Software Engineer Infrastructure Platform"
	option := "Software Engineer Infrastructure Roles"
	assert.True(t, optionMatches(answer, option))
}

func TestIsSearchable(t *testing.T) {
	assert.True(t, isSearchable(Descriptor{StableID: "school_name", Label: "School"}))
	assert.True(t, isSearchable(Descriptor{StableID: "q_17", Label: "Degree Earned"}))
	assert.False(t, isSearchable(Descriptor{StableID: "q_18", Label: "Notice Period"}))
}
