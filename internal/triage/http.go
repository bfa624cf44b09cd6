// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package triage

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/curadohealth/curado/internal/platform/request"
	"github.com/curadohealth/curado/internal/platform/respond"
	"github.com/curadohealth/curado/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the triage HTTP endpoints.
//
// # Scope
//
// Access control is enforced upstream by the route authorization gate; by
// the time a request reaches these handlers it has already passed the
// group's requirement. Handlers still resolve the current user where the
// operation needs an identity to act on.
type Handler struct {
	triageService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{triageService: service}
}

// Routes registers the member-facing triage endpoints on the given router.
//
// # Endpoints
//   - GET  /questionnaires      : Published questionnaire catalog.
//   - GET  /questionnaires/{id} : Single questionnaire detail.
//   - GET  /intake              : The member's own submissions.
//   - POST /intake              : Files a completed questionnaire.
func (handler *Handler) Routes(router chi.Router) {
	router.Get("/questionnaires", handler.listQuestionnaires)
	router.Get("/questionnaires/{id}", handler.getQuestionnaire)
	router.Get("/intake", handler.listOwnIntakes)
	router.Post("/intake", handler.submitIntake)
}

// AdminRoutes registers the clinician review endpoints on the given router.
func (handler *Handler) AdminRoutes(router chi.Router) {
	router.Get("/intakes", handler.reviewQueue)
	router.Post("/intakes/{id}/review", handler.reviewIntake)
}

// # Request Payloads

type submitIntakeRequest struct {
	QuestionnaireID string          `json:"questionnaire_id"`
	Answers         json.RawMessage `json:"answers"`
	Urgency         string          `json:"urgency"`
}

type reviewIntakeRequest struct {
	Status string `json:"status"`
}

/*
ListQuestionnaires returns the published questionnaire catalog.

GET /questionnaires

Response:
  - 200: []Questionnaire: Published questionnaires
*/
func (handler *Handler) listQuestionnaires(writer http.ResponseWriter, request *http.Request) {
	questionnaires, err := handler.triageService.ListQuestionnaires(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, questionnaires)
}

/*
GetQuestionnaire returns a single published questionnaire.

GET /questionnaires/{id}

Response:
  - 200: Questionnaire: Hydrated entity
  - 404: ErrNotFound: Unknown or unpublished questionnaire
*/
func (handler *Handler) getQuestionnaire(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required(FieldQuestionnaireID, id).UUID(FieldQuestionnaireID, id)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	questionnaire, err := handler.triageService.GetQuestionnaire(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, questionnaire)
}

/*
SubmitIntake files a completed questionnaire into the review queue.

POST /intake

Request:
  - Body: submitIntakeRequest (QuestionnaireID, Answers, Urgency)

Response:
  - 201: Intake: The filed intake
  - 400: ErrValidation: Bad input
  - 404: ErrNotFound: Unknown questionnaire
*/
func (handler *Handler) submitIntake(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitIntakeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldQuestionnaireID, input.QuestionnaireID).
		UUID(FieldQuestionnaireID, input.QuestionnaireID).
		OneOf(FieldUrgency, input.Urgency, UrgencyValues()...).
		Custom(FieldAnswers, len(input.Answers) == 0, "must not be empty")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	intake, err := handler.triageService.SubmitIntake(request.Context(), SubmitInput{
		UserID:          user.ID,
		QuestionnaireID: input.QuestionnaireID,
		Answers:         input.Answers,
		Urgency:         Urgency(input.Urgency),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, intake)
}

/*
ListOwnIntakes returns the calling member's submissions.

GET /intake

Response:
  - 200: []Intake: The member's intakes, newest first
*/
func (handler *Handler) listOwnIntakes(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	intakes, err := handler.triageService.ListOwnIntakes(request.Context(), user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, intakes)
}

/*
ReviewQueue returns the pending intakes awaiting clinical attention.

GET /admin/intakes

Response:
  - 200: []Intake: Pending intakes, most urgent first
*/
func (handler *Handler) reviewQueue(writer http.ResponseWriter, request *http.Request) {
	intakes, err := handler.triageService.ReviewQueue(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, intakes)
}

/*
ReviewIntake records a clinician's decision on a pending intake.

POST /admin/intakes/{id}/review

Request:
  - Body: reviewIntakeRequest (Status)

Response:
  - 200: Success: Review recorded
  - 400: ErrValidation: Bad status value
  - 404: ErrNotFound: No pending intake with that id
*/
func (handler *Handler) reviewIntake(writer http.ResponseWriter, request *http.Request) {
	reviewer, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	intakeID := requestutil.Param(request, "id")

	var input reviewIntakeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldIntakeID, intakeID).
		UUID(FieldIntakeID, intakeID).
		OneOf(FieldStatus, input.Status, string(StatusReviewed), string(StatusClosed))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.triageService.ReviewIntake(request.Context(), intakeID, reviewer.ID, Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Review recorded",
	})
}
