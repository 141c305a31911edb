package domain

import (
	"time"

	"github.com/google/uuid"
)

// Question is one step of the intake questionnaire.
type Question struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Options      []string `json:"options"`
	DetailPrompt string   `json:"detailPrompt"`
}

// QuestionnaireAnswer holds the multi-select answer for one question.
// Details is always empty while Selected is empty.
type QuestionnaireAnswer struct {
	Selected []string `json:"selected"`
	Details  string   `json:"details"`
}

// IntakeSubmission is a persisted questionnaire, tagged with the identity it
// was submitted under.
type IntakeSubmission struct {
	ID        uuid.UUID
	Username  string
	Role      string
	Answers   map[int]QuestionnaireAnswer
	CreatedAt time.Time
}
