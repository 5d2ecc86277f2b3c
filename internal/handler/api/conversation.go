package api

import (
	"net/http"
	"strconv"

	reqdto "barber-booking/internal/handler/dto/request"
	resdto "barber-booking/internal/handler/dto/response"
	"barber-booking/internal/handler/httperr"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/conversation"

	"github.com/gin-gonic/gin"
)

// ConversationHandler lets other chat transports drive conversations over HTTP.
type ConversationHandler struct {
	conversations conversation.Handler
}

func NewConversationHandler(conversations conversation.Handler) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// @Summary Send conversation event
// @Description Apply one event to the user's booking or vacation conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Chat user id"
// @Param request body reqdto.ConversationEventRequest true "Event"
// @Success 200 {object} resdto.ReplyResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} resdto.ReplyResponse
// @Router /conversations/{userId}/events [post]
func (h *ConversationHandler) PostEvent(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req reqdto.ConversationEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithField(c, http.StatusBadRequest, err, "type", "Invalid request format")
		return
	}
	ev, err := req.ToEvent()
	if err != nil {
		var fe *reqdto.FieldError
		if errs.As(err, &fe) {
			httperr.AbortWithField(c, http.StatusBadRequest, err, fe.Field, "Invalid "+fe.Field)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event", nil)
		return
	}

	reply, err := h.conversations.Handle(c.Request.Context(), userID, ev)
	if err != nil {
		_ = c.Error(err)
		if reply != nil {
			c.JSON(http.StatusServiceUnavailable, resdto.FromReply(reply))
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReply(reply))
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errs.Newf("user id %d is not positive", id)
		}
		httperr.AbortWithField(c, http.StatusBadRequest, err, "userId", "Invalid user id")
		return 0, false
	}
	return id, true
}
