package models

import (
	"time"

	"github.com/google/uuid"
)

// Role são os perfis de acesso dos usuários
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleGestor      Role = "GESTOR"
	RoleOperacional Role = "OPERACIONAL"
)

// AnswerValue são os valores possíveis de uma resposta
type AnswerValue string

const (
	AnswerConforme    AnswerValue = "CONFORME"
	AnswerNaoConforme AnswerValue = "NAO_CONFORME"
	AnswerNaoSeAplica AnswerValue = "NAO_SE_APLICA"
)

// ExecutionStatus são os status do ciclo de vida de uma execução
type ExecutionStatus string

const (
	ExecutionInProgress ExecutionStatus = "IN_PROGRESS"
	ExecutionCompleted  ExecutionStatus = "COMPLETED"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	UnitID       uuid.UUID  `json:"unitId"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Unit struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Checklist struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Question struct {
	ID            uuid.UUID `json:"id"`
	ChecklistID   uuid.UUID `json:"checklistId"`
	Text          string    `json:"text"`
	OrderIndex    int       `json:"orderIndex"`
	RequiresPhoto bool      `json:"requiresPhoto"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Execution struct {
	ID                   uuid.UUID       `json:"id"`
	ChecklistID          uuid.UUID       `json:"checklistId"`
	UnitID               uuid.UUID       `json:"unitId"`
	UserID               uuid.UUID       `json:"userId"`
	Status               ExecutionStatus `json:"status"`
	StartedAt            time.Time       `json:"startedAt"`
	FinishedAt           *time.Time      `json:"finishedAt,omitempty"`
	ConformityPercentage *float64        `json:"conformityPercentage,omitempty"`
}

type Answer struct {
	ID          uuid.UUID   `json:"id"`
	ExecutionID uuid.UUID   `json:"executionId"`
	QuestionID  uuid.UUID   `json:"questionId"`
	Value       AnswerValue `json:"value"`
	Observation string      `json:"observation,omitempty"`
	PhotoURL    string      `json:"photoUrl,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// AnswerStats holds the scorable answer counts of an execution.
// NAO_SE_APLICA answers are excluded by the aggregation query.
type AnswerStats struct {
	Conforme    int
	NaoConforme int
}

// DTOs for API requests/responses

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PublicUser struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	UnitID uuid.UUID `json:"unitId"`
}

type LoginResponse struct {
	AccessToken string     `json:"accessToken"`
	User        PublicUser `json:"user"`
}

type StartExecutionResponse struct {
	Execution *Execution `json:"execution"`
	Questions []Question `json:"questions"`
	Checklist *Checklist `json:"checklist"`
}

type AnswerResponse struct {
	Answer *Answer `json:"answer"`
}

type FinalizeResponse struct {
	ConformityPercentage float64 `json:"conformityPercentage"`
}

type ExecutionCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
}

type DashboardResponse struct {
	Units      int             `json:"units"`
	Users      int             `json:"users"`
	Checklists int             `json:"checklists"`
	Executions ExecutionCounts `json:"executions"`
}
