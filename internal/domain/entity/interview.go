package entity

import "time"

// ExperienceLevel is the seniority the interview questions are pitched at.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

// InterviewType selects the interview medium. Voice is accepted and
// forwarded to the service but the client renders text only.
type InterviewType string

const (
	InterviewText  InterviewType = "text"
	InterviewVoice InterviewType = "voice"
)

// InterviewSetup is the form submitted to start an interview.
type InterviewSetup struct {
	JobRole         string          `json:"job_role" validate:"required"`
	ExperienceLevel ExperienceLevel `json:"experience_level" validate:"required,oneof=entry mid senior"`
	InterviewType   InterviewType   `json:"interview_type" validate:"required,oneof=text voice"`
}

// DefaultSetup returns the setup the dashboard form starts from.
func DefaultSetup() InterviewSetup {
	return InterviewSetup{
		ExperienceLevel: ExperienceMid,
		InterviewType:   InterviewText,
	}
}

// Question is one server-issued interview question. Read-only.
type Question struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Type     string `json:"type"`
}

// Interview is one server-issued attempt: an ordered list of questions.
// Immutable once received.
type Interview struct {
	ID        string     `json:"interview_id"`
	Questions []Question `json:"questions"`
}

func (i *Interview) TotalQuestions() int {
	return len(i.Questions)
}

// SubmissionResult is the service's reply to one submitted answer.
// Feedback is present only when Completed is true.
type SubmissionResult struct {
	Completed    bool   `json:"completed"`
	Feedback     string `json:"feedback,omitempty"`
	Message      string `json:"message,omitempty"`
	NextQuestion int    `json:"next_question,omitempty"`
}

// ResumeReceipt is the service's acknowledgement of a resume upload.
// The controller keeps only the advisory uploaded flag; the receipt is
// surfaced for display.
type ResumeReceipt struct {
	Message     string `json:"message"`
	ResumeID    string `json:"resume_id"`
	TextPreview string `json:"text_preview"`
}

// InterviewRecord is one row of the interview history list.
type InterviewRecord struct {
	ID              string    `json:"id"`
	JobRole         string    `json:"job_role"`
	ExperienceLevel string    `json:"experience_level"`
	InterviewType   string    `json:"interview_type"`
	Status          string    `json:"status"` // in_progress, completed
	Feedback        string    `json:"feedback,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
