package server

import (
	"errors"
	"net/http"

	"github.com/foliolabs/folio-api/internal/assist"
	"github.com/foliolabs/folio-api/internal/contact"
	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleContactSubmit(c *gin.Context) {
	var input contact.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	message, err := h.contact.Submit(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": message.ID, "relayed": message.Relayed})
}

func (h *httpHandler) handleListMessages(c *gin.Context) {
	messages, err := h.contact.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *httpHandler) handleDeleteMessage(c *gin.Context) {
	if err := h.contact.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type promptRequestPayload struct {
	Prompt string `json:"prompt"`
}

func (h *httpHandler) handleChat(c *gin.Context) {
	h.handlePrompt(c)
}

func (h *httpHandler) handleAssist(c *gin.Context) {
	h.handlePrompt(c)
}

func (h *httpHandler) handlePrompt(c *gin.Context) {
	if h.assist == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assist_unavailable"})
		return
	}
	var request promptRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	text, err := h.assist.GenerateOrFallback(c.Request.Context(), request.Prompt)
	if errors.Is(err, assist.ErrEmptyPrompt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": gin.H{"prompt": "is required"}})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
