package handler

import (
	"net/http"
	"strconv"

	"Orbit_Social/internal/repository/mysql"
	"Orbit_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler() *MessageHandler {
	return &MessageHandler{svc: service.NewMessageService(
		mysql.NewMessageRepository(mysql.DB),
		mysql.NewUserRepository(mysql.DB),
	)}
}

type sendMessageReq struct {
	ReceiverID uint64 `json:"receiver_id" binding:"required"`
	Content    string `json:"content"`
	MediaURL   string `json:"media_url"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	msg, err := h.svc.SendMessage(c.Request.Context(), userIDFromCtx(c), req.ReceiverID, req.Content, req.MediaURL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Conversation pages the thread with :id, newest first.
func (h *MessageHandler) Conversation(c *gin.Context) {
	otherID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, next, err := h.svc.Conversation(c.Request.Context(), userIDFromCtx(c), otherID, cursor, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	otherID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	n, err := h.svc.MarkConversationRead(c.Request.Context(), userIDFromCtx(c), otherID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}
