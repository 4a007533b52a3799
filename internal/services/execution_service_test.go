package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/repository"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/validation"
)

type fakeStore struct {
	executions map[uuid.UUID]*models.Execution
	questions  map[uuid.UUID]*models.Question
	stats      models.AnswerStats

	createAnswerErr error
	completeErr     error

	answersCreated int
	completeCalls  int
	lastPercentage float64
}

func (f *fakeStore) GetExecution(ctx context.Context, id uuid.UUID) (*models.Execution, error) {
	e, ok := f.executions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

func (f *fakeStore) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return q, nil
}

func (f *fakeStore) CreateAnswer(ctx context.Context, executionID, questionID uuid.UUID, value models.AnswerValue, observation, photoURL string) (*models.Answer, error) {
	if f.createAnswerErr != nil {
		return nil, f.createAnswerErr
	}
	f.answersCreated++
	return &models.Answer{
		ID:          uuid.New(),
		ExecutionID: executionID,
		QuestionID:  questionID,
		Value:       value,
		Observation: observation,
		PhotoURL:    photoURL,
	}, nil
}

func (f *fakeStore) AnswerStats(ctx context.Context, executionID uuid.UUID) (*models.AnswerStats, error) {
	stats := f.stats
	return &stats, nil
}

func (f *fakeStore) CompleteExecution(ctx context.Context, executionID uuid.UUID, percentage float64) (*models.Execution, error) {
	f.completeCalls++
	f.lastPercentage = percentage
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	e := f.executions[executionID]
	e.Status = models.ExecutionCompleted
	e.ConformityPercentage = &percentage
	return e, nil
}

type fakePhotos struct {
	storeErr error
	stored   []string
	removed  []string
}

func (f *fakePhotos) StorePhoto(ctx context.Context, file *multipart.FileHeader, executionID uuid.UUID) (*StoredPhoto, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	path := executionID.String() + "/foto.jpg"
	f.stored = append(f.stored, path)
	return &StoredPhoto{StoragePath: path, PublicURL: "/uploads/" + path}, nil
}

func (f *fakePhotos) Remove(ctx context.Context, storagePath string) error {
	f.removed = append(f.removed, storagePath)
	return nil
}

func newFixture() (*fakeStore, *fakePhotos, *ExecutionService, uuid.UUID, uuid.UUID, uuid.UUID) {
	execID := uuid.New()
	plainQ := uuid.New()
	photoQ := uuid.New()

	store := &fakeStore{
		executions: map[uuid.UUID]*models.Execution{
			execID: {ID: execID, Status: models.ExecutionInProgress},
		},
		questions: map[uuid.UUID]*models.Question{
			plainQ: {ID: plainQ, Text: "Estoque organizado?"},
			photoQ: {ID: photoQ, Text: "Cozinha limpa?", RequiresPhoto: true},
		},
	}
	photos := &fakePhotos{}
	svc := NewExecutionService(store, photos)
	return store, photos, svc, execID, plainQ, photoQ
}

func TestAnswerQuestionConforme(t *testing.T) {
	store, _, svc, execID, plainQ, _ := newFixture()

	answer, err := svc.AnswerQuestion(context.Background(), execID, AnswerRequest{
		QuestionID: plainQ,
		Value:      models.AnswerConforme,
	})
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if answer.Value != models.AnswerConforme {
		t.Errorf("Value = %s", answer.Value)
	}
	if store.answersCreated != 1 {
		t.Errorf("answersCreated = %d, want 1", store.answersCreated)
	}
}

func TestAnswerQuestionValidation(t *testing.T) {
	_, _, svc, execID, plainQ, photoQ := newFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  AnswerRequest
		want error
	}{
		{
			name: "invalid enum value",
			req:  AnswerRequest{QuestionID: plainQ, Value: "SIM"},
			want: validation.ErrInvalidValue,
		},
		{
			name: "non-conformity without observation",
			req:  AnswerRequest{QuestionID: plainQ, Value: models.AnswerNaoConforme},
			want: validation.ErrObservationRequired,
		},
		{
			name: "non-conformity without required photo",
			req:  AnswerRequest{QuestionID: photoQ, Value: models.AnswerNaoConforme, Observation: "azulejo sujo"},
			want: validation.ErrPhotoRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AnswerQuestion(ctx, execID, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAnswerQuestionWithPhoto(t *testing.T) {
	_, photos, svc, execID, _, photoQ := newFixture()

	answer, err := svc.AnswerQuestion(context.Background(), execID, AnswerRequest{
		QuestionID:  photoQ,
		Value:       models.AnswerNaoConforme,
		Observation: "azulejo sujo",
		Photo:       &multipart.FileHeader{Filename: "foto.jpg", Size: 1024},
	})
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if answer.PhotoURL == "" {
		t.Error("PhotoURL is empty")
	}
	if len(photos.stored) != 1 {
		t.Errorf("stored photos = %d, want 1", len(photos.stored))
	}
	if len(photos.removed) != 0 {
		t.Errorf("removed photos = %d, want 0", len(photos.removed))
	}
}

func TestAnswerQuestionCleansUpPhotoOnInsertFailure(t *testing.T) {
	store, photos, svc, execID, _, photoQ := newFixture()
	store.createAnswerErr = errors.New("db down")

	_, err := svc.AnswerQuestion(context.Background(), execID, AnswerRequest{
		QuestionID:  photoQ,
		Value:       models.AnswerNaoConforme,
		Observation: "azulejo sujo",
		Photo:       &multipart.FileHeader{Filename: "foto.jpg", Size: 1024},
	})
	if err == nil {
		t.Fatal("AnswerQuestion succeeded, want error")
	}
	if len(photos.removed) != 1 {
		t.Fatalf("removed photos = %d, want 1", len(photos.removed))
	}
	if photos.removed[0] != photos.stored[0] {
		t.Errorf("removed %q, stored %q", photos.removed[0], photos.stored[0])
	}
}

func TestAnswerQuestionDuplicate(t *testing.T) {
	store, _, svc, execID, plainQ, _ := newFixture()
	store.createAnswerErr = repository.ErrDuplicateAnswer

	_, err := svc.AnswerQuestion(context.Background(), execID, AnswerRequest{
		QuestionID: plainQ,
		Value:      models.AnswerConforme,
	})
	if !errors.Is(err, ErrDuplicateAnswer) {
		t.Errorf("err = %v, want %v", err, ErrDuplicateAnswer)
	}
}

func TestAnswerQuestionAfterCompletionRejected(t *testing.T) {
	store, _, svc, execID, plainQ, _ := newFixture()
	store.executions[execID].Status = models.ExecutionCompleted

	_, err := svc.AnswerQuestion(context.Background(), execID, AnswerRequest{
		QuestionID: plainQ,
		Value:      models.AnswerConforme,
	})
	if !errors.Is(err, ErrExecutionCompleted) {
		t.Errorf("err = %v, want %v", err, ErrExecutionCompleted)
	}
}

func TestAnswerQuestionUnknownExecution(t *testing.T) {
	_, _, svc, _, plainQ, _ := newFixture()

	_, err := svc.AnswerQuestion(context.Background(), uuid.New(), AnswerRequest{
		QuestionID: plainQ,
		Value:      models.AnswerConforme,
	})
	if !errors.Is(err, ErrExecutionNotFound) {
		t.Errorf("err = %v, want %v", err, ErrExecutionNotFound)
	}
}

func TestFinalizePercentage(t *testing.T) {
	store, _, svc, execID, _, _ := newFixture()
	// 3 CONFORME, 1 NAO_CONFORME, NAO_SE_APLICA already excluded by the store.
	store.stats = models.AnswerStats{Conforme: 3, NaoConforme: 1}

	pct, err := svc.Finalize(context.Background(), execID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if pct != 75 {
		t.Errorf("percentage = %v, want 75", pct)
	}
	if store.completeCalls != 1 {
		t.Errorf("completeCalls = %d, want 1", store.completeCalls)
	}
	if store.lastPercentage != 75 {
		t.Errorf("persisted percentage = %v, want 75", store.lastPercentage)
	}
}

func TestFinalizeNoScorableAnswers(t *testing.T) {
	_, _, svc, execID, _, _ := newFixture()

	pct, err := svc.Finalize(context.Background(), execID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if pct != 0 {
		t.Errorf("percentage = %v, want 0", pct)
	}
}

func TestFinalizeTwiceRejected(t *testing.T) {
	_, _, svc, execID, _, _ := newFixture()
	ctx := context.Background()

	if _, err := svc.Finalize(ctx, execID); err != nil {
		t.Fatalf("first Finalize: %v", err)
	}
	if _, err := svc.Finalize(ctx, execID); !errors.Is(err, ErrExecutionCompleted) {
		t.Errorf("second Finalize err = %v, want %v", err, ErrExecutionCompleted)
	}
}

func TestFinalizeLosesRace(t *testing.T) {
	store, _, svc, execID, _, _ := newFixture()
	// Another finalize flipped the status between our read and the CAS update.
	store.completeErr = pgx.ErrNoRows

	_, err := svc.Finalize(context.Background(), execID)
	if !errors.Is(err, ErrExecutionCompleted) {
		t.Errorf("err = %v, want %v", err, ErrExecutionCompleted)
	}
}

func TestConformityPercentage(t *testing.T) {
	tests := []struct {
		name  string
		stats models.AnswerStats
		want  float64
	}{
		{"all conforme", models.AnswerStats{Conforme: 5}, 100},
		{"three of four", models.AnswerStats{Conforme: 3, NaoConforme: 1}, 75},
		{"none conforme", models.AnswerStats{NaoConforme: 2}, 0},
		{"nothing scorable", models.AnswerStats{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConformityPercentage(&tt.stats); got != tt.want {
				t.Errorf("ConformityPercentage = %v, want %v", got, tt.want)
			}
		})
	}
}
