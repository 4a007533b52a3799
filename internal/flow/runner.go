package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/validation"
)

// ErrNoChecklist is returned when the catalog has no active checklist.
var ErrNoChecklist = errors.New("no checklist available")

// Runner executes one checklist run. It enforces the same answer rules as the
// server before submitting, supports backward navigation over answered
// questions without unwinding server state, and finalizes exactly once.
type Runner struct {
	api    API
	source Source

	state     State
	index     int
	answered  map[uuid.UUID]models.AnswerValue
	execution *models.Execution
	checklist *models.Checklist
	questions []models.Question
}

func NewRunner(api API, source Source) *Runner {
	return &Runner{
		api:      api,
		source:   source,
		state:    StateLoading,
		answered: make(map[uuid.UUID]models.AnswerValue),
	}
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State {
	return r.state
}

func (r *Runner) transition(to State) error {
	if !isAllowedTransition(r.state, to) {
		return fmt.Errorf("invalid state transition: %s -> %s", r.state, to)
	}
	r.state = to
	return nil
}

// Run picks the first available checklist, opens an execution and walks the
// operator through every question, then finalizes.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.state != StateLoading {
		return nil, fmt.Errorf("runner already used (state %s)", r.state)
	}

	checklists, err := r.api.ListChecklists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	if len(checklists) == 0 {
		return nil, ErrNoChecklist
	}

	start, err := r.api.StartExecution(ctx, checklists[0].ID)
	if err != nil {
		return nil, fmt.Errorf("failed to start execution: %w", err)
	}

	r.execution = start.Execution
	r.checklist = start.Checklist
	r.questions = start.Questions

	if err := r.transition(StateAnswering); err != nil {
		return nil, err
	}

	var lastErr error
	for r.index < len(r.questions) {
		question := r.questions[r.index]
		_, alreadyAnswered := r.answered[question.ID]

		step, err := r.source.NextStep(Prompt{
			Question:  question,
			Position:  r.index + 1,
			Total:     len(r.questions),
			Answered:  alreadyAnswered,
			LastError: lastErr,
		})
		if err != nil {
			return nil, fmt.Errorf("aborted on question %d: %w", r.index+1, err)
		}
		lastErr = nil

		switch step.Action {
		case ActionBack:
			if r.index > 0 {
				r.index--
			}

		case ActionNext:
			if !alreadyAnswered {
				lastErr = fmt.Errorf("question %d has not been answered yet", r.index+1)
				continue
			}
			r.index++

		case ActionAnswer:
			if alreadyAnswered {
				// Answers are immutable; moving on is the only option.
				lastErr = fmt.Errorf("question %d already answered", r.index+1)
				continue
			}
			if err := r.submit(ctx, question, step); err != nil {
				lastErr = err
				continue
			}
			r.index++

		default:
			return nil, fmt.Errorf("unknown action: %d", step.Action)
		}
	}

	percentage, err := r.api.Finalize(ctx, r.execution.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize execution: %w", err)
	}

	if err := r.transition(StateCompleted); err != nil {
		return nil, err
	}

	return &Result{
		ChecklistName:        r.checklist.Name,
		ExecutionID:          r.execution.ID,
		QuestionsAnswered:    len(r.answered),
		ConformityPercentage: percentage,
	}, nil
}

// submit validates locally with the shared rules and sends the answer. Any
// failure leaves the runner on the same question in ANSWERING state.
func (r *Runner) submit(ctx context.Context, question models.Question, step Step) error {
	if err := validation.ValidateAnswer(&question, validation.AnswerInput{
		Value:       step.Value,
		Observation: step.Observation,
		HasPhoto:    step.PhotoPath != "",
	}); err != nil {
		return err
	}

	if err := r.transition(StateSubmitting); err != nil {
		return err
	}

	_, err := r.api.SubmitAnswer(ctx, r.execution.ID, AnswerInput{
		QuestionID:  question.ID,
		Value:       step.Value,
		Observation: step.Observation,
		PhotoPath:   step.PhotoPath,
	})

	if transitionErr := r.transition(StateAnswering); transitionErr != nil {
		return transitionErr
	}
	if err != nil {
		return fmt.Errorf("failed to submit answer: %w", err)
	}

	r.answered[question.ID] = step.Value
	return nil
}
