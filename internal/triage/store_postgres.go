// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package triage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/curadohealth/curado/internal/platform/apperr"
)

// # PostgreSQL Repository

// PostgresRepository implements the [Repository] interface against the
// triage.questionnaire and triage.intake tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
ListQuestionnaires returns every published questionnaire, newest first.

Parameters:
  - context: context.Context

Returns:
  - []*Questionnaire: Published questionnaires
  - error: Execution errors
*/
func (repository *PostgresRepository) ListQuestionnaires(context context.Context) ([]*Questionnaire, error) {
	const query = `
		SELECT id, title, summary, questions, ispublished, createdat, updatedat
		FROM triage.questionnaire
		WHERE ispublished = TRUE
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_triage_repo_list_failed: %w", err)
	}
	defer rows.Close()

	questionnaires := make([]*Questionnaire, 0)
	for rows.Next() {
		questionnaire := &Questionnaire{}
		if err := rows.Scan(
			&questionnaire.ID,
			&questionnaire.Title,
			&questionnaire.Summary,
			&questionnaire.Questions,
			&questionnaire.IsPublished,
			&questionnaire.CreatedAt,
			&questionnaire.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_triage_repo_list_scan_failed: %w", err)
		}
		questionnaires = append(questionnaires, questionnaire)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_triage_repo_list_rows_failed: %w", err)
	}

	return questionnaires, nil
}

/*
FindQuestionnaire retrieves a single published questionnaire by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Questionnaire: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindQuestionnaire(context context.Context, id string) (*Questionnaire, error) {
	const query = `
		SELECT id, title, summary, questions, ispublished, createdat, updatedat
		FROM triage.questionnaire
		WHERE id = $1 AND ispublished = TRUE`

	questionnaire := &Questionnaire{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&questionnaire.ID,
		&questionnaire.Title,
		&questionnaire.Summary,
		&questionnaire.Questions,
		&questionnaire.IsPublished,
		&questionnaire.CreatedAt,
		&questionnaire.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Questionnaire")
		}
		return nil, fmt.Errorf("postgres_triage_repo_find_failed: %w", err)
	}

	return questionnaire, nil
}

/*
CreateIntake persists a new intake submission.

Parameters:
  - context: context.Context
  - intake: *Intake

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) CreateIntake(context context.Context, intake *Intake) error {
	const query = `
		INSERT INTO triage.intake (
			id, userid, questionnaireid, answers, urgency, status, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if intake.CreatedAt.IsZero() {
		intake.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		intake.ID,
		intake.UserID,
		intake.QuestionnaireID,
		intake.Answers,
		intake.Urgency,
		intake.Status,
		intake.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_triage_repo_create_intake_failed: %w", err)
	}

	return nil
}

/*
ListIntakesForUser returns a member's own submissions, newest first.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Intake: The member's intakes
  - error: Execution errors
*/
func (repository *PostgresRepository) ListIntakesForUser(context context.Context, userID string) ([]*Intake, error) {
	const query = `
		SELECT id, userid, questionnaireid, answers, urgency, status, createdat, reviewedat, reviewedby
		FROM triage.intake
		WHERE userid = $1
		ORDER BY createdat DESC`

	return repository.queryIntakes(context, query, userID)
}

/*
ListPendingIntakes returns the clinician review queue.

Description: Ordered most urgent first, then oldest first within the same
urgency, so nothing rots at the bottom of the queue.

Parameters:
  - context: context.Context

Returns:
  - []*Intake: Pending intakes
  - error: Execution errors
*/
func (repository *PostgresRepository) ListPendingIntakes(context context.Context) ([]*Intake, error) {
	const query = `
		SELECT id, userid, questionnaireid, answers, urgency, status, createdat, reviewedat, reviewedby
		FROM triage.intake
		WHERE status = 'pending'
		ORDER BY CASE urgency
			WHEN 'urgent'  THEN 0
			WHEN 'soon'    THEN 1
			ELSE 2
		END, createdat ASC`

	return repository.queryIntakes(context, query)
}

/*
UpdateIntakeReview records a clinician's review decision.

Parameters:
  - context: context.Context
  - intakeID: string
  - reviewerID: string
  - status: Status

Returns:
  - error: apperr.NotFound when no pending intake matches, or execution errors
*/
func (repository *PostgresRepository) UpdateIntakeReview(context context.Context, intakeID, reviewerID string, status Status) error {
	const query = `
		UPDATE triage.intake
		SET status = $2, reviewedby = $3, reviewedat = $4
		WHERE id = $1 AND status = 'pending'`

	tag, err := repository.pool.Exec(context, query, intakeID, status, reviewerID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_triage_repo_review_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Pending intake")
	}

	return nil
}

// queryIntakes executes a multi-row intake query and hydrates the entities.
func (repository *PostgresRepository) queryIntakes(context context.Context, query string, arguments ...any) ([]*Intake, error) {
	rows, err := repository.pool.Query(context, query, arguments...)
	if err != nil {
		return nil, fmt.Errorf("postgres_triage_repo_query_intakes_failed: %w", err)
	}
	defer rows.Close()

	intakes := make([]*Intake, 0)
	for rows.Next() {
		intake := &Intake{}
		var reviewedAt sql.NullTime
		var reviewedBy sql.NullString

		if err := rows.Scan(
			&intake.ID,
			&intake.UserID,
			&intake.QuestionnaireID,
			&intake.Answers,
			&intake.Urgency,
			&intake.Status,
			&intake.CreatedAt,
			&reviewedAt,
			&reviewedBy,
		); err != nil {
			return nil, fmt.Errorf("postgres_triage_repo_scan_intake_failed: %w", err)
		}

		if reviewedAt.Valid {
			reviewedTime := reviewedAt.Time
			intake.ReviewedAt = &reviewedTime
		}
		intake.ReviewedBy = reviewedBy.String

		intakes = append(intakes, intake)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_triage_repo_intake_rows_failed: %w", err)
	}

	return intakes, nil
}
