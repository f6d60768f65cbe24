package models

import (
	"strings"
	"time"
)

type JobStatus string

const (
	JobNew      JobStatus = "NEW"
	JobMatched  JobStatus = "MATCHED"
	JobApplied  JobStatus = "APPLIED"
	JobRejected JobStatus = "REJECTED"
	JobExpired  JobStatus = "EXPIRED"
)

type ApplicationStatus string

const (
	AppPending    ApplicationStatus = "PENDING"
	AppInProgress ApplicationStatus = "IN_PROGRESS"
	AppSubmitted  ApplicationStatus = "SUBMITTED"
	AppFailed     ApplicationStatus = "FAILED"
	AppSkipped    ApplicationStatus = "SKIPPED"
)

// ATSType identifies the platform hosting the application form.
type ATSType string

const (
	ATSGreenhouse ATSType = "GREENHOUSE"
	ATSLever      ATSType = "LEVER"
	ATSWorkday    ATSType = "WORKDAY"
	ATSAshby      ATSType = "ASHBY"
	ATSUnknown    ATSType = "UNKNOWN"
)

type Job struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location,omitempty"`
	Remote       bool       `json:"remote"`
	Description  string     `json:"description,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	URL          string     `json:"url"`
	ATSType      ATSType    `json:"ats_type"`
	Source       string     `json:"source"`
	SourceID     *string    `json:"source_id,omitempty"`
	MatchScore   *float64   `json:"match_score,omitempty"`
	MatchReason  *string    `json:"match_reason,omitempty"`
	Status       JobStatus  `json:"status"`
	PostedDate   *time.Time `json:"posted_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AnswerRecord is one resolved, submission-ready answer. An empty Answer
// means the field was deliberately left blank.
type AnswerRecord struct {
	Field    string `json:"field"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Kind     string `json:"kind"`
}

type Application struct {
	ID            int64             `json:"id"`
	JobID         int64             `json:"job_id"`
	Status        ApplicationStatus `json:"status"`
	SubmittedData []byte            `json:"submitted_data,omitempty"` // JSON array of AnswerRecord
	ResponseData  []byte            `json:"response_data,omitempty"`
	ErrorMessage  *string           `json:"error_message,omitempty"`
	RetryCount    int               `json:"retry_count"`
	SubmittedAt   *time.Time        `json:"submitted_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ResumeData caches extracted resume text keyed by file hash so repeated runs
// skip the PDF extraction step.
type ResumeData struct {
	ID        int64     `json:"id"`
	RawText   string    `json:"raw_text"`
	FilePath  string    `json:"file_path"`
	FileHash  string    `json:"file_hash"`
	Embedding []byte    `json:"embedding,omitempty"` // JSON array of floats
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DetectATSType maps an application URL to its hosting platform.
func DetectATSType(url string) ATSType {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "greenhouse.io"):
		return ATSGreenhouse
	case strings.Contains(lower, "lever.co"):
		return ATSLever
	case strings.Contains(lower, "workday"):
		return ATSWorkday
	case strings.Contains(lower, "ashbyhq.com"):
		return ATSAshby
	default:
		return ATSUnknown
	}
}
