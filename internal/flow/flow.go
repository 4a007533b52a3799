// Package flow drives one checklist execution question by question against
// the API, the way the mobile client does: validate locally, submit, advance.
package flow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
)

// State is the runner's position in the execution lifecycle.
type State string

const (
	StateLoading    State = "LOADING"
	StateAnswering  State = "ANSWERING"
	StateSubmitting State = "SUBMITTING"
	StateCompleted  State = "COMPLETED"
)

// IsTerminal reports whether the state is terminal (finished).
func IsTerminal(s State) bool {
	return s == StateCompleted
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateLoading:
		return to == StateAnswering
	case StateAnswering:
		// Answering reaches COMPLETED directly only for an empty checklist.
		return to == StateSubmitting || to == StateCompleted
	case StateSubmitting:
		return to == StateAnswering || to == StateCompleted
	default:
		return false
	}
}

// API is the backend surface the runner needs. Satisfied by apiclient.Client;
// tests substitute a fake.
type API interface {
	ListChecklists(ctx context.Context) ([]models.Checklist, error)
	StartExecution(ctx context.Context, checklistID uuid.UUID) (*models.StartExecutionResponse, error)
	SubmitAnswer(ctx context.Context, executionID uuid.UUID, in AnswerInput) (*models.Answer, error)
	Finalize(ctx context.Context, executionID uuid.UUID) (float64, error)
}

// AnswerInput is one answer as collected from the operator.
type AnswerInput struct {
	QuestionID  uuid.UUID
	Value       models.AnswerValue
	Observation string
	PhotoPath   string // local file attached as evidence, empty when none
}

// Action is what the operator chose to do on the current question.
type Action int

const (
	// ActionAnswer submits the step's answer for the current question.
	ActionAnswer Action = iota
	// ActionBack moves to the previous question without touching the server.
	ActionBack
	// ActionNext moves forward over a question that was already answered.
	ActionNext
)

// Step is one operator decision.
type Step struct {
	Action      Action
	Value       models.AnswerValue
	Observation string
	PhotoPath   string
}

// Prompt is everything a Source gets to show for the current question.
type Prompt struct {
	Question models.Question
	Position int // 1-based
	Total    int
	Answered bool
	// LastError carries the validation or submission failure of the previous
	// step for the same question, nil on first ask.
	LastError error
}

// Source supplies operator decisions. The CLI implements it over stdin;
// tests use a scripted fake.
type Source interface {
	NextStep(p Prompt) (Step, error)
}

// Result summarizes a completed execution.
type Result struct {
	ChecklistName        string
	ExecutionID          uuid.UUID
	QuestionsAnswered    int
	ConformityPercentage float64
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: %d question(s) answered, %.1f%% conformity",
		r.ChecklistName, r.QuestionsAnswered, r.ConformityPercentage)
}
