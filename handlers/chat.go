package handlers

import (
	"context"
	"net/http"

	"stayfinder/models"
	"stayfinder/services/conversation"
	"stayfinder/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatHandler exposes the booking conversation over HTTP: one endpoint per
// turn kind, each accepting a free-text message and returning the reply plus
// the session state snapshot.
type ChatHandler struct {
	svc    *conversation.Service
	logger *zap.Logger
}

func NewChatHandler(svc *conversation.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

type turnFunc func(ctx context.Context, sessionID, text string) (string, *models.BookingState, error)

// handleTurn binds the request, assigns a session ID when the client has
// none, and maps service errors to HTTP statuses. A provider failure is not
// an HTTP error: it comes back as an apology reply with status 200.
func (h *ChatHandler) handleTurn(c *gin.Context, turn turnFunc) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	reply, state, err := turn(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		if conversation.IsPhaseViolation(err) {
			utils.JSONError(c, http.StatusConflict, "not currently expecting this input", err.Error())
			return
		}
		h.logger.Error("chat turn failed", zap.String("sessionID", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to process message", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		State:     state,
	})
}

// Message advances the slot-filling turn.
func (h *ChatHandler) Message(c *gin.Context) {
	h.handleTurn(c, h.svc.Advance)
}

// Select advances the hotel-selection turn.
func (h *ChatHandler) Select(c *gin.Context) {
	h.handleTurn(c, h.svc.Select)
}

// Contact advances the contact/confirmation turn.
func (h *ChatHandler) Contact(c *gin.Context) {
	h.handleTurn(c, h.svc.Confirm)
}

// ResetSession discards a session so a new booking can start.
func (h *ChatHandler) ResetSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "sessionID is required")
		return
	}
	if err := h.svc.Reset(c.Request.Context(), sessionID); err != nil {
		h.logger.Error("session reset failed", zap.String("sessionID", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to reset session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "status": "reset"})
}
