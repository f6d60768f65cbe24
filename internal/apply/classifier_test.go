package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDescriptorsOrdersKinds(t *testing.T) {
	controls := []rawControl{
		{Tag: "textarea", ID: "cover_letter_text", Label: "Cover Letter"},
		{Tag: "input", Type: "text", ID: "question_1", Label: "LinkedIn Profile"},
		{Tag: "select", ID: "question_2", Label: "Work Authorization", Options: []string{"Yes", "No"}},
	}

	descriptors := buildDescriptors(controls)
	require.Len(t, descriptors, 3)
	assert.Equal(t, KindSelect, descriptors[0].Kind)
	assert.Equal(t, KindText, descriptors[1].Kind)
	assert.Equal(t, KindTextarea, descriptors[2].Kind)
}

func TestBuildDescriptorsRejectsShortLabels(t *testing.T) {
	controls := []rawControl{
		{Tag: "input", Type: "text", ID: "q1", Label: "Name"},
		{Tag: "input", Type: "text", ID: "q2", Label: "  ID  "},
		{Tag: "input", Type: "text", ID: "q3", Label: "Preferred Name"},
	}

	descriptors := buildDescriptors(controls)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "Preferred Name", descriptors[0].Label)
}

func TestBuildDescriptorsDeduplicatesByLabel(t *testing.T) {
	//a native select plus its decorative text-input proxy share one label
	controls := []rawControl{
		{Tag: "select", ID: "country_select", Label: "Country of Residence", Options: []string{"United States", "Canada"}},
		{Tag: "input", Type: "text", ID: "country_input", Label: "Country of Residence", ReadOnly: true},
	}

	descriptors := buildDescriptors(controls)
	require.Len(t, descriptors, 1)
	assert.Equal(t, KindSelect, descriptors[0].Kind)
	assert.Equal(t, "country_select", descriptors[0].StableID)
}

func TestBuildDescriptorsDetectsFakeDropdowns(t *testing.T) {
	cases := []struct {
		name    string
		control rawControl
		want    FieldKind
	}{
		{"readonly", rawControl{Tag: "input", Type: "text", ID: "a1", Label: "Degree Earned", ReadOnly: true}, KindFakeDropdown},
		{"combobox role", rawControl{Tag: "input", Type: "text", ID: "a2", Label: "School Name", Role: "combobox"}, KindFakeDropdown},
		{"aria-haspopup", rawControl{Tag: "input", Type: "text", ID: "a3", Label: "Notice Period", HasPopup: true}, KindFakeDropdown},
		{"arrow sibling", rawControl{Tag: "input", Type: "text", ID: "a4", Label: "Pronoun Choice", DropdownCue: true}, KindFakeDropdown},
		{"plain text input", rawControl{Tag: "input", Type: "text", ID: "a5", Label: "GitHub Profile"}, KindText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			descriptors := buildDescriptors([]rawControl{tc.control})
			require.Len(t, descriptors, 1)
			assert.Equal(t, tc.want, descriptors[0].Kind)
		})
	}
}

func TestBuildDescriptorsSkipsStandardFields(t *testing.T) {
	controls := []rawControl{
		{Tag: "input", Type: "text", ID: "first_name", Label: "First Name"},
		{Tag: "input", Type: "email", ID: "email", Label: "Email Address"},
		{Tag: "input", Type: "tel", Name: "job_application[phone]", Label: "Phone Number"},
		{Tag: "input", Type: "text", ID: "question_9", Label: "Current Employer"},
	}

	descriptors := buildDescriptors(controls)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "Current Employer", descriptors[0].Label)
}

func TestBuildDescriptorsSkipsUnaddressableControls(t *testing.T) {
	controls := []rawControl{
		{Tag: "input", Type: "text", Label: "No id or name here"},
		{Tag: "select", ID: "question_3", Label: "Security Clearance", Options: []string{"None", "Secret"}},
	}

	descriptors := buildDescriptors(controls)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "question_3", descriptors[0].StableID)
}

func TestBuildDescriptorsIsDeterministic(t *testing.T) {
	controls := []rawControl{
		{Tag: "select", ID: "s1", Label: "How did you hear about us?", Options: []string{"LinkedIn", "Other"}},
		{Tag: "input", Type: "text", ID: "t1", Label: "Desired Salary"},
		{Tag: "textarea", ID: "ta1", Label: "Why do you want to work here?"},
	}

	first := buildDescriptors(controls)
	second := buildDescriptors(controls)
	assert.Equal(t, first, second)
}
