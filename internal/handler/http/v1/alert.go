package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/triage"
	"github.com/sirupsen/logrus"
)

// @Summary Create a new alert
// @Description Report an incident. The alert starts in PENDING with an empty timeline.
// @Tags Alerts
// @Accept json
// @Produce json
// @Param alert body CreateAlertRequest true "Alert creation request"
// @Success 201 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func (h *Handler) createAlert(c *gin.Context) {
	var input CreateAlertRequest
	log := h.logger.WithField("method", "createAlert")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	model := DTOToAlertModel(input)
	if err := h.alertService.CreateAlert(c.Request.Context(), model); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToAlertResponse(model))
}

// @Summary Get all alerts
// @Description Get all alerts, newest first. Clients poll this endpoint.
// @Tags Alerts
// @Produce json
// @Success 200 {array} AlertResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "listAlerts")

	alerts, err := h.alertService.ListAlerts(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToAlertResponses(alerts))
}

// @Summary Get alert by ID
// @Description Get a single alert by its ID
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid alert ID"
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/{id} [get]
func (h *Handler) getAlert(c *gin.Context) {
	id, ok := parseID(c, "invalid alert ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getAlert").WithField("id", id)

	alert, err := h.alertService.GetAlert(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert))
}

// @Summary Update an alert
// @Description Merge the given fields into a stored alert. Status never moves backwards and the timeline never shrinks.
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param alert body UpdateAlertRequest true "Fields to merge"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid alert ID, request body or update"
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/{id} [put]
func (h *Handler) updateAlert(c *gin.Context) {
	id, ok := parseID(c, "invalid alert ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateAlert").WithField("id", id)

	var input UpdateAlertRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	alert, err := h.alertService.UpdateAlert(c.Request.Context(), id, DTOToAlertPatch(input))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert))
}

// @Summary Get the pending queue
// @Description Pending alerts in service order: highest priority first, oldest first within a priority. Authority only.
// @Tags Dispatch
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Success 200 {array} AlertResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/queue [get]
func (h *Handler) pendingQueue(c *gin.Context) {
	log := h.logger.WithField("method", "pendingQueue")

	queue, err := h.alertService.PendingQueue(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToAlertResponses(queue))
}

// @Summary Get request statistics
// @Description Cumulative requested and resolved alerts over the last 24 hours in 4 hour steps. Authority only.
// @Tags Dispatch
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Success 200 {array} StatsPointResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/stats [get]
func (h *Handler) alertStats(c *gin.Context) {
	log := h.logger.WithField("method", "alertStats")

	points, err := h.alertService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, StatsToResponse(points))
}

// @Summary Dispatch a unit
// @Description Assign a response unit to a pending alert and move it to IN_PROGRESS. Authority only.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Param request body DispatchRequest true "Unit to dispatch"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid alert ID or request body"
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 409 {object} map[string]string "Alert is not pending"
// @Router /alerts/{id}/dispatch [post]
func (h *Handler) dispatchAlert(c *gin.Context) {
	id, ok := parseID(c, "invalid alert ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "dispatchAlert").WithField("id", id)

	var input DispatchRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	alert, err := h.alertService.DispatchAlert(c.Request.Context(), id, triage.UnitType(input.Unit))
	h.respondAlert(c, log, alert, err)
}

// @Summary Add a status note
// @Description Append a progress note to an alert in IN_PROGRESS. Authority only.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Param request body StatusNoteRequest true "Progress note"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid alert ID or request body"
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 409 {object} map[string]string "Alert is not in progress"
// @Router /alerts/{id}/status [post]
func (h *Handler) addStatusNote(c *gin.Context) {
	id, ok := parseID(c, "invalid alert ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "addStatusNote").WithField("id", id)

	var input StatusNoteRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	alert, err := h.alertService.AddStatusNote(c.Request.Context(), id, input.Note)
	h.respondAlert(c, log, alert, err)
}

// @Summary Resolve an alert
// @Description Close an alert in IN_PROGRESS with resolution notes. Authority only.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Param request body ResolveRequest true "Resolution notes"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid alert ID or request body"
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 409 {object} map[string]string "Alert is not in progress"
// @Router /alerts/{id}/resolve [post]
func (h *Handler) resolveAlert(c *gin.Context) {
	id, ok := parseID(c, "invalid alert ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "resolveAlert").WithField("id", id)

	var input ResolveRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	alert, err := h.alertService.ResolveAlert(c.Request.Context(), id, input.Notes)
	h.respondAlert(c, log, alert, err)
}

func (h *Handler) respondAlert(c *gin.Context, log *logrus.Entry, alert *models.Alert, err error) {
	if err != nil {
		respondError(c, log, err)
		return
	}
	log.WithField("status", alert.Status).Info("Alert transition applied")
	c.JSON(http.StatusOK, ModelToAlertResponse(alert))
}

func parseID(c *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return uuid.Nil, false
	}
	return id, true
}
