// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/curadohealth/curado/internal/platform/apperr"
	"github.com/curadohealth/curado/pkg/uuid"
)

// # Definitions & Constructors

// Service implements the triage use cases on top of a [Repository].
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Questionnaire Catalog

/*
ListQuestionnaires returns the published questionnaire catalog.

Parameters:
  - context: context.Context

Returns:
  - []*Questionnaire: Published questionnaires
  - error: Retrieval failures
*/
func (service *Service) ListQuestionnaires(context context.Context) ([]*Questionnaire, error) {
	questionnaires, err := service.repository.ListQuestionnaires(context)
	if err != nil {
		return nil, fmt.Errorf("triage_service_list_failed: %w", err)
	}
	return questionnaires, nil
}

/*
GetQuestionnaire resolves a single published questionnaire.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Questionnaire: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetQuestionnaire(context context.Context, id string) (*Questionnaire, error) {
	return service.repository.FindQuestionnaire(context, id)
}

// # Intake Pipeline

// SubmitInput holds a member's completed questionnaire.
type SubmitInput struct {
	UserID          string
	QuestionnaireID string
	Answers         json.RawMessage
	Urgency         Urgency
}

/*
SubmitIntake files a member's completed questionnaire into the review queue.

Description: Verifies the questionnaire exists and is published, then
persists the submission as a pending intake.

Parameters:
  - context: context.Context
  - input: SubmitInput

Returns:
  - *Intake: The filed intake
  - error: apperr.NotFound (unknown questionnaire) or storage failures
*/
func (service *Service) SubmitIntake(context context.Context, input SubmitInput) (*Intake, error) {

	// Reject submissions against unknown or unpublished questionnaires.
	if _, err := service.repository.FindQuestionnaire(context, input.QuestionnaireID); err != nil {
		return nil, err
	}

	intake := &Intake{
		ID:              uuid.New(),
		UserID:          input.UserID,
		QuestionnaireID: input.QuestionnaireID,
		Answers:         input.Answers,
		Urgency:         input.Urgency,
		Status:          StatusPending,
	}

	if err := service.repository.CreateIntake(context, intake); err != nil {
		return nil, fmt.Errorf("triage_service_submit_failed: %w", err)
	}

	return intake, nil
}

/*
ListOwnIntakes returns the calling member's submissions.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Intake: The member's intakes, newest first
  - error: Retrieval failures
*/
func (service *Service) ListOwnIntakes(context context.Context, userID string) ([]*Intake, error) {
	intakes, err := service.repository.ListIntakesForUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("triage_service_list_own_failed: %w", err)
	}
	return intakes, nil
}

// # Clinical Review

/*
ReviewQueue returns the pending intakes ordered for clinical attention.

Parameters:
  - context: context.Context

Returns:
  - []*Intake: Pending intakes, most urgent first
  - error: Retrieval failures
*/
func (service *Service) ReviewQueue(context context.Context) ([]*Intake, error) {
	intakes, err := service.repository.ListPendingIntakes(context)
	if err != nil {
		return nil, fmt.Errorf("triage_service_queue_failed: %w", err)
	}
	return intakes, nil
}

/*
ReviewIntake records a clinician's decision on a pending intake.

Parameters:
  - context: context.Context
  - intakeID: string
  - reviewerID: string
  - status: Status

Returns:
  - error: Validation, apperr.NotFound, or update failures
*/
func (service *Service) ReviewIntake(context context.Context, intakeID, reviewerID string, status Status) error {

	// Pending is not a review outcome.
	if status != StatusReviewed && status != StatusClosed {
		return apperr.ValidationError("Invalid review status")
	}

	if err := service.repository.UpdateIntakeReview(context, intakeID, reviewerID, status); err != nil {
		return err
	}

	return nil
}
