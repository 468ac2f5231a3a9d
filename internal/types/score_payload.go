package types

import (
	"github.com/go-playground/validator/v10"
)

// ScorePayload is the prompt-equivalent payload handed to the scoring
// oracle: everything the oracle needs to evaluate one candidate against
// one job. PrivateDirections may be empty; the application material may not.
type ScorePayload struct {
	JobTitle          string `json:"job_title,omitempty"`
	JobDescription    string `json:"job_description" validate:"required"`
	PrivateDirections string `json:"private_directions,omitempty"`
	ResumeText        string `json:"resume_text" validate:"required"`
	QuestionnaireText string `json:"questionnaire_text" validate:"required"`
}

// Validate validates the ScorePayload using the validator.
func (p *ScorePayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
