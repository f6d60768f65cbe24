package models

import (
	"fmt"
	"strings"
)

type Contact struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Website   string `json:"website,omitempty"`
	Location  string `json:"location,omitempty"`
}

type EducationInfo struct {
	School         string `json:"school" validate:"required"`
	Degree         string `json:"degree" validate:"required"`
	Major          string `json:"major,omitempty"`
	GraduationDate string `json:"graduation_date,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type ProfileSkills struct {
	ProgrammingLanguages []string `json:"programming_languages,omitempty"`
	Frameworks           []string `json:"frameworks,omitempty"`
	Tools                []string `json:"tools,omitempty"`
	Technologies         []string `json:"technologies,omitempty"`
}

type WorkAuthorization struct {
	AuthorizedUS           bool `json:"authorized_us"`
	RequireVisaSponsorship bool `json:"require_visa_sponsorship"`
}

// Profile is the candidate record filled into application forms. It is loaded
// once per run and treated as immutable for the duration of a session.
type Profile struct {
	Contact           Contact           `json:"contact" validate:"required"`
	Education         EducationInfo     `json:"education" validate:"required"`
	Skills            ProfileSkills     `json:"skills"`
	Experience        []ExperienceEntry `json:"experience,omitempty"`
	WorkAuthorization WorkAuthorization `json:"work_authorization"`
	Demographics      map[string]string `json:"demographics,omitempty"`
	LegalQuestions    map[string]string `json:"legal_questions,omitempty"`
	Preferences       map[string]string `json:"preferences,omitempty"`
}

// FullName returns the explicit full name or assembles one from the parts.
func (p *Profile) FullName() string {
	if p.Contact.FullName != "" {
		return p.Contact.FullName
	}
	return strings.TrimSpace(p.Contact.FirstName + " " + p.Contact.LastName)
}

// SkillList flattens the skill categories into one ordered list.
func (p *Profile) SkillList() []string {
	var skills []string
	skills = append(skills, p.Skills.ProgrammingLanguages...)
	skills = append(skills, p.Skills.Frameworks...)
	skills = append(skills, p.Skills.Tools...)
	skills = append(skills, p.Skills.Technologies...)
	return skills
}

// SummaryText builds the profile summary used for embeddings and as grounding
// context for generated answers.
func (p *Profile) SummaryText() string {
	var parts []string

	parts = append(parts, "Name: "+p.FullName())

	if skills := p.SkillList(); len(skills) > 0 {
		limit := len(skills)
		if limit > 20 {
			limit = 20
		}
		parts = append(parts, "Technical Skills: "+strings.Join(skills[:limit], ", "))
	}

	if len(p.Experience) > 0 {
		var texts []string
		for i, exp := range p.Experience {
			if i >= 3 {
				break
			}
			text := fmt.Sprintf("%s at %s", exp.Title, exp.Company)
			if exp.Description != "" {
				desc := exp.Description
				if len(desc) > 200 {
					desc = desc[:200]
				}
				text += ": " + desc
			}
			texts = append(texts, text)
		}
		parts = append(parts, "Experience: "+strings.Join(texts, "; "))
	}

	edu := fmt.Sprintf("Education: %s", p.Education.Degree)
	if p.Education.Major != "" {
		edu += " in " + p.Education.Major
	}
	if p.Education.School != "" {
		edu += " from " + p.Education.School
	}
	if p.Education.GraduationDate != "" {
		edu += fmt.Sprintf(" (Expected: %s)", p.Education.GraduationDate)
	}
	parts = append(parts, edu)

	return strings.Join(parts, "\n\n")
}
