package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/resilienceworks/case-study-backend/database"
	"github.com/resilienceworks/case-study-backend/errs"
	"github.com/resilienceworks/case-study-backend/models"
)

type outcomeHandler struct {
	responder   Responder
	logger      zerolog.Logger
	outcomeRepo *database.OutcomeRepo
}

func newOutcomeHandler(outcomeRepo *database.OutcomeRepo) outcomeHandler {
	logger := log.With().Str("handlerName", "outcomeHandler").Logger()

	return outcomeHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		outcomeRepo: outcomeRepo,
	}
}

// createOutcome records an outcome for a project
// @Summary Create outcome
// @Description Records a new outcome against an existing project
// @Tags Outcomes
// @Accept json
// @Produce json
// @Param outcome body models.Outcome true "Outcome data"
// @Success 201 {object} models.Outcome "Created outcome"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid outcome data or unknown project"
// @Router /outcomes [post]
func (h outcomeHandler) createOutcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var outcome models.Outcome
		if err := json.NewDecoder(r.Body).Decode(&outcome); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode outcome request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if outcome.ProjectID == 0 {
			h.responder.WriteError(w, errs.NewBadRequestErrorWithField("project_id is required", "project_id", ""))
			return
		}

		outcome.ID = 0

		if err := h.outcomeRepo.Add(&outcome); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "outcome", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, outcome)
	}
}

// getLatestOutcome retrieves the most recent outcome for a project
// @Summary Get latest outcome
// @Description Retrieves the most recently recorded outcome for a project
// @Tags Outcomes
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} models.Outcome "Latest outcome"
// @Failure 404 {object} ErrorResponse "Not Found - No outcomes recorded for this project"
// @Router /outcomes/project/{projectID} [get]
func (h outcomeHandler) getLatestOutcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseIDParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		outcome, err := h.outcomeRepo.FindLatestByProject(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "outcome", err))
			return
		}

		if outcome == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("no outcomes found for this project"))
			return
		}

		h.responder.WriteJSON(w, outcome)
	}
}

// updateOutcome applies a partial update to an outcome
// @Summary Update outcome
// @Description Updates only the fields present in the request body, leaving the rest intact
// @Tags Outcomes
// @Accept json
// @Produce json
// @Param outcomeID path int true "Outcome ID"
// @Param update body models.OutcomeUpdate true "Fields to update"
// @Success 200 {object} models.Outcome "Updated outcome"
// @Failure 404 {object} ErrorResponse "Not Found - Outcome not found"
// @Router /outcomes/{outcomeID} [put]
func (h outcomeHandler) updateOutcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcomeID, err := parseIDParam(r, "outcomeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var update models.OutcomeUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode outcome update body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		outcome, err := h.outcomeRepo.FindByID(outcomeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "outcome", err))
			return
		}

		if outcome == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("outcome not found"))
			return
		}

		update.ApplyTo(outcome)

		if err := h.outcomeRepo.Save(outcome); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "outcome", err))
			return
		}

		h.responder.WriteJSON(w, outcome)
	}
}

// deleteOutcome removes a single outcome
// @Summary Delete outcome
// @Description Deletes an outcome by ID
// @Tags Outcomes
// @Produce json
// @Param outcomeID path int true "Outcome ID"
// @Success 200 {object} map[string]interface{} "Deletion summary"
// @Failure 404 {object} ErrorResponse "Not Found - Outcome not found"
// @Router /outcomes/{outcomeID} [delete]
func (h outcomeHandler) deleteOutcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcomeID, err := parseIDParam(r, "outcomeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existed, err := h.outcomeRepo.Delete(outcomeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "outcome", err))
			return
		}

		if !existed {
			h.responder.WriteError(w, errs.NewNotFoundError("outcome not found"))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"message":    "Deleted outcome",
			"outcome_id": outcomeID,
		})
	}
}
