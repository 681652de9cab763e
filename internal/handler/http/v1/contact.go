package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Create an emergency contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact body ContactRequest true "Contact"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts [post]
func (h *Handler) createContact(c *gin.Context) {
	var input ContactRequest
	log := h.logger.WithField("method", "createContact")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	model := DTOToContactModel(input)
	if err := h.contactService.CreateContact(c.Request.Context(), model); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToContactResponse(model))
}

// @Summary List emergency contacts
// @Description List contacts of a user. Without userId all contacts are returned.
// @Tags Contacts
// @Produce json
// @Param userId query string false "Owner user ID"
// @Success 200 {array} ContactResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	userID := c.Query("userId")
	log := h.logger.WithField("method", "listContacts").WithField("user_id", userID)

	contacts, err := h.contactService.ListContacts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToContactResponses(contacts))
}

// @Summary Delete an emergency contact
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 400 {object} map[string]string "Invalid contact ID"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts/{id} [delete]
func (h *Handler) deleteContact(c *gin.Context) {
	id, ok := parseID(c, "invalid contact ID")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "deleteContact").WithField("id", id)

	if err := h.contactService.DeleteContact(c.Request.Context(), id); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
