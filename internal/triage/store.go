// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package triage

import "context"

// # Triage Data Access

// Repository defines the data access contract for questionnaires and intakes.
type Repository interface {

	/*
		ListQuestionnaires returns every published questionnaire.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Questionnaire: Published questionnaires, newest first
		  - error: Database retrieval failures
	*/
	ListQuestionnaires(context context.Context) ([]*Questionnaire, error)

	/*
		FindQuestionnaire returns the published questionnaire with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Questionnaire: Hydrated entity, or apperr.NotFound when absent
		  - error: Database retrieval failures
	*/
	FindQuestionnaire(context context.Context, id string) (*Questionnaire, error)

	/*
		CreateIntake persists a new intake submission.

		Parameters:
		  - context: context.Context
		  - intake: *Intake

		Returns:
		  - error: Persistence failures
	*/
	CreateIntake(context context.Context, intake *Intake) error

	/*
		ListIntakesForUser returns a member's own submissions, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*Intake: The member's intakes
		  - error: Database retrieval failures
	*/
	ListIntakesForUser(context context.Context, userID string) ([]*Intake, error)

	/*
		ListPendingIntakes returns the clinician review queue, most urgent first.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Intake: Pending intakes ordered by urgency then age
		  - error: Database retrieval failures
	*/
	ListPendingIntakes(context context.Context) ([]*Intake, error)

	/*
		UpdateIntakeReview records a clinician's review decision.

		Parameters:
		  - context: context.Context
		  - intakeID: string
		  - reviewerID: string
		  - status: Status

		Returns:
		  - error: apperr.NotFound when the intake does not exist, or update failures
	*/
	UpdateIntakeReview(context context.Context, intakeID, reviewerID string, status Status) error
}
