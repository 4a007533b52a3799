package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/validation"
)

type fakeAPI struct {
	checklists []models.Checklist
	questions  []models.Question
	execution  models.Execution

	submitErr error

	submitted     []AnswerInput
	finalizeCalls int
	percentage    float64
}

func (f *fakeAPI) ListChecklists(ctx context.Context) ([]models.Checklist, error) {
	return f.checklists, nil
}

func (f *fakeAPI) StartExecution(ctx context.Context, checklistID uuid.UUID) (*models.StartExecutionResponse, error) {
	return &models.StartExecutionResponse{
		Execution: &f.execution,
		Questions: f.questions,
		Checklist: &f.checklists[0],
	}, nil
}

func (f *fakeAPI) SubmitAnswer(ctx context.Context, executionID uuid.UUID, in AnswerInput) (*models.Answer, error) {
	if f.submitErr != nil {
		err := f.submitErr
		f.submitErr = nil
		return nil, err
	}
	f.submitted = append(f.submitted, in)
	return &models.Answer{ID: uuid.New(), ExecutionID: executionID, QuestionID: in.QuestionID, Value: in.Value}, nil
}

func (f *fakeAPI) Finalize(ctx context.Context, executionID uuid.UUID) (float64, error) {
	f.finalizeCalls++
	return f.percentage, nil
}

// scriptedSource replays a fixed list of steps and records every prompt.
type scriptedSource struct {
	steps   []Step
	prompts []Prompt
}

func (s *scriptedSource) NextStep(p Prompt) (Step, error) {
	s.prompts = append(s.prompts, p)
	if len(s.steps) == 0 {
		return Step{}, errors.New("script exhausted")
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step, nil
}

func newFakeAPI(questionCount int) *fakeAPI {
	checklistID := uuid.New()
	api := &fakeAPI{
		checklists: []models.Checklist{{ID: checklistID, Name: "Abertura da loja", Active: true}},
		execution:  models.Execution{ID: uuid.New(), ChecklistID: checklistID, Status: models.ExecutionInProgress},
		percentage: 100,
	}
	for i := 0; i < questionCount; i++ {
		api.questions = append(api.questions, models.Question{
			ID:          uuid.New(),
			ChecklistID: checklistID,
			OrderIndex:  i + 1,
		})
	}
	return api
}

func answer(value models.AnswerValue) Step {
	return Step{Action: ActionAnswer, Value: value}
}

func TestRunnerHappyPath(t *testing.T) {
	api := newFakeAPI(3)
	source := &scriptedSource{steps: []Step{
		answer(models.AnswerConforme),
		answer(models.AnswerConforme),
		answer(models.AnswerNaoSeAplica),
	}}

	runner := NewRunner(api, source)
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if runner.State() != StateCompleted {
		t.Errorf("state = %s, want %s", runner.State(), StateCompleted)
	}
	if len(api.submitted) != 3 {
		t.Errorf("submitted = %d, want 3", len(api.submitted))
	}
	if api.finalizeCalls != 1 {
		t.Errorf("finalizeCalls = %d, want 1", api.finalizeCalls)
	}
	if result.QuestionsAnswered != 3 {
		t.Errorf("QuestionsAnswered = %d, want 3", result.QuestionsAnswered)
	}
	if result.ConformityPercentage != 100 {
		t.Errorf("ConformityPercentage = %v, want 100", result.ConformityPercentage)
	}

	// Questions must be presented in order.
	for i, p := range source.prompts {
		if p.Position != i+1 {
			t.Errorf("prompt %d position = %d", i, p.Position)
		}
	}
}

func TestRunnerLocalValidationBlocksSubmit(t *testing.T) {
	api := newFakeAPI(1)
	api.questions[0].RequiresPhoto = true

	source := &scriptedSource{steps: []Step{
		// Missing observation, then missing photo, then a valid answer.
		{Action: ActionAnswer, Value: models.AnswerNaoConforme},
		{Action: ActionAnswer, Value: models.AnswerNaoConforme, Observation: "vitrine suja"},
		{Action: ActionAnswer, Value: models.AnswerNaoConforme, Observation: "vitrine suja", PhotoPath: "/tmp/foto.jpg"},
	}}

	runner := NewRunner(api, source)
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(api.submitted) != 1 {
		t.Fatalf("submitted = %d, want 1 (invalid answers must not reach the API)", len(api.submitted))
	}

	if !errors.Is(source.prompts[1].LastError, validation.ErrObservationRequired) {
		t.Errorf("second prompt LastError = %v, want %v", source.prompts[1].LastError, validation.ErrObservationRequired)
	}
	if !errors.Is(source.prompts[2].LastError, validation.ErrPhotoRequired) {
		t.Errorf("third prompt LastError = %v, want %v", source.prompts[2].LastError, validation.ErrPhotoRequired)
	}
}

func TestRunnerBackNavigation(t *testing.T) {
	api := newFakeAPI(2)
	source := &scriptedSource{steps: []Step{
		answer(models.AnswerConforme),
		{Action: ActionBack},
		{Action: ActionNext},
		answer(models.AnswerConforme),
	}}

	runner := NewRunner(api, source)
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Going back and forward over question 1 must not resubmit it.
	if len(api.submitted) != 2 {
		t.Fatalf("submitted = %d, want 2", len(api.submitted))
	}
	if api.submitted[0].QuestionID != api.questions[0].ID {
		t.Error("first submission is not question 1")
	}
	if api.submitted[1].QuestionID != api.questions[1].ID {
		t.Error("second submission is not question 2")
	}

	// The revisited prompt sees the question as answered.
	if !source.prompts[2].Answered {
		t.Error("revisited question not marked as answered")
	}
}

func TestRunnerBackOnFirstQuestionStays(t *testing.T) {
	api := newFakeAPI(1)
	source := &scriptedSource{steps: []Step{
		{Action: ActionBack},
		answer(models.AnswerConforme),
	}}

	runner := NewRunner(api, source)
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(api.submitted) != 1 {
		t.Errorf("submitted = %d, want 1", len(api.submitted))
	}
}

func TestRunnerSubmitFailureStaysOnQuestion(t *testing.T) {
	api := newFakeAPI(1)
	api.submitErr = errors.New("api unavailable")

	source := &scriptedSource{steps: []Step{
		answer(models.AnswerConforme),
		answer(models.AnswerConforme),
	}}

	runner := NewRunner(api, source)
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(api.submitted) != 1 {
		t.Errorf("submitted = %d, want 1", len(api.submitted))
	}
	if source.prompts[1].LastError == nil {
		t.Error("retry prompt carries no error")
	}
	if api.finalizeCalls != 1 {
		t.Errorf("finalizeCalls = %d, want 1", api.finalizeCalls)
	}
}

func TestRunnerNoChecklists(t *testing.T) {
	api := &fakeAPI{}
	runner := NewRunner(api, &scriptedSource{})

	if _, err := runner.Run(context.Background()); !errors.Is(err, ErrNoChecklist) {
		t.Errorf("err = %v, want %v", err, ErrNoChecklist)
	}
}

func TestRunnerEmptyChecklistFinalizesImmediately(t *testing.T) {
	api := newFakeAPI(0)
	api.percentage = 0

	runner := NewRunner(api, &scriptedSource{})
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if api.finalizeCalls != 1 {
		t.Errorf("finalizeCalls = %d, want 1", api.finalizeCalls)
	}
	if result.ConformityPercentage != 0 {
		t.Errorf("ConformityPercentage = %v, want 0", result.ConformityPercentage)
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateLoading, StateAnswering, true},
		{StateAnswering, StateSubmitting, true},
		{StateSubmitting, StateAnswering, true},
		{StateSubmitting, StateCompleted, true},
		{StateAnswering, StateCompleted, true},
		{StateLoading, StateCompleted, false},
		{StateCompleted, StateAnswering, false},
		{StateSubmitting, StateLoading, false},
	}

	for _, tt := range tests {
		if got := isAllowedTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("isAllowedTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
