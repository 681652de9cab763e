package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/tourist_safety_system/internal/geofence"
)

// @Summary Check location for danger zones
// @Description Check a position against zones derived from live alerts plus the zones given in the request.
// @Description When the position is inside a zone, the nearest safe spot and an escape route are returned.
// @Tags Location
// @Accept json
// @Produce json
// @Param location body LocationCheckRequest true "Location check request"
// @Success 200 {object} LocationCheckResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /location/check [post]
func (h *Handler) checkLocation(c *gin.Context) {
	var input LocationCheckRequest
	log := h.logger.WithField("method", "checkLocation")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	zones, spots := DTOToZones(input)
	pos := geofence.Point{Lat: input.Latitude, Lng: input.Longitude}

	result, err := h.locationService.CheckLocation(c.Request.Context(), input.UserID, pos, zones, spots)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, AssessmentToResponse(result))
}

// @Summary Get user statistics
// @Description Count of distinct users who checked their location within the stats window. Authority only.
// @Tags Location
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /location/stats [get]
func (h *Handler) getLocationStats(c *gin.Context) {
	log := h.logger.WithField("method", "getLocationStats")

	userCount, err := h.locationService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, StatsResponse{UserCount: userCount})
}
