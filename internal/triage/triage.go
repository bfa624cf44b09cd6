// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

/*
Package triage implements Curado's questionnaire and intake domain.

Members work through symptom questionnaires; each completed submission
becomes an intake that clinicians review in an urgency-ordered queue.

# Architecture

This layer is the "Truth" of the triage system. Entities defined here have
no transport dependencies and encapsulate the business rules around intake
urgency and review state.
*/
package triage

import (
	"encoding/json"
	"time"
)

// # Domain Entities

// Questionnaire is a published set of symptom questions.
type Questionnaire struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	Questions   json.RawMessage `json:"questions"`
	IsPublished bool            `json:"is_published"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Intake is one member's completed questionnaire submission awaiting
// clinical review.
type Intake struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	QuestionnaireID string          `json:"questionnaire_id"`
	Answers         json.RawMessage `json:"answers"`
	Urgency         Urgency         `json:"urgency"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	ReviewedBy      string          `json:"reviewed_by,omitempty"`
}

// # Enumerations

// Urgency classifies how quickly an intake needs clinical attention.
type Urgency string

const (
	UrgencyRoutine Urgency = "routine"
	UrgencySoon    Urgency = "soon"
	UrgencyUrgent  Urgency = "urgent"
)

// Status tracks an intake through the review pipeline.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusClosed   Status = "closed"
)

// # Field Identifiers

// Global field names for validation in the triage domain.
const (
	FieldQuestionnaireID = "questionnaire_id"
	FieldIntakeID        = "intake_id"
	FieldAnswers         = "answers"
	FieldUrgency         = "urgency"
	FieldStatus          = "status"
	FieldMessage         = "message"
)

// UrgencyValues lists every accepted urgency, in escalation order.
func UrgencyValues() []string {
	return []string{string(UrgencyRoutine), string(UrgencySoon), string(UrgencyUrgent)}
}

// StatusValues lists every accepted review status.
func StatusValues() []string {
	return []string{string(StatusPending), string(StatusReviewed), string(StatusClosed)}
}
