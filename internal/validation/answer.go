// Package validation holds the answer validation rules in a single place so
// that the API and the flow runner cannot drift apart. The server rejects what
// the runner rejects, and vice versa.
package validation

import (
	"errors"
	"strings"

	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
)

var (
	ErrInvalidValue        = errors.New("answer value must be CONFORME, NAO_CONFORME or NAO_SE_APLICA")
	ErrObservationRequired = errors.New("observation is required for a non-conformity")
	ErrPhotoRequired       = errors.New("photo is required for this non-conformity")
)

// AnswerInput is the rule-relevant subset of an answer submission.
type AnswerInput struct {
	Value       models.AnswerValue
	Observation string
	HasPhoto    bool
}

// IsValidValue reports whether v is one of the three enumerated answer values.
func IsValidValue(v models.AnswerValue) bool {
	switch v {
	case models.AnswerConforme, models.AnswerNaoConforme, models.AnswerNaoSeAplica:
		return true
	default:
		return false
	}
}

// ValidateAnswer applies the submission rules for a question:
//   - the value must be a known enum value;
//   - NAO_CONFORME requires a non-blank observation;
//   - NAO_CONFORME on a question with RequiresPhoto set requires a photo.
//
// NAO_SE_APLICA deliberately requires nothing: it is excluded from scoring.
func ValidateAnswer(question *models.Question, in AnswerInput) error {
	if !IsValidValue(in.Value) {
		return ErrInvalidValue
	}

	if in.Value != models.AnswerNaoConforme {
		return nil
	}

	if strings.TrimSpace(in.Observation) == "" {
		return ErrObservationRequired
	}

	if question.RequiresPhoto && !in.HasPhoto {
		return ErrPhotoRequired
	}

	return nil
}
