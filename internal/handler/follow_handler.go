package handler

import (
	"net/http"
	"strconv"

	"Orbit_Social/internal/repository/mysql"
	"Orbit_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler() *FollowHandler {
	return &FollowHandler{svc: service.NewFollowService(
		mysql.NewFollowRepository(mysql.DB),
		mysql.NewUserRepository(mysql.DB),
	)}
}

type followReq struct {
	TargetID uint64 `json:"target_id" binding:"required"`
}

type decisionReq struct {
	RequesterID uint64 `json:"requester_id" binding:"required"`
}

// Follow files a follow request toward target_id.
func (h *FollowHandler) Follow(c *gin.Context) {
	var req followReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	status, err := h.svc.FollowUser(c.Request.Context(), userIDFromCtx(c), req.TargetID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Accept approves an incoming request; the caller is the request's target.
func (h *FollowHandler) Accept(c *gin.Context) {
	var req decisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.AcceptFollowRequest(c.Request.Context(), req.RequesterID, userIDFromCtx(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *FollowHandler) Reject(c *gin.Context) {
	var req decisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.RejectFollowRequest(c.Request.Context(), req.RequesterID, userIDFromCtx(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Unfollow removes the caller's edge toward :id. Succeeds as a no-op when no
// edge exists.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	changed, err := h.svc.UnfollowUser(c.Request.Context(), userIDFromCtx(c), targetID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (h *FollowHandler) Relation(c *gin.Context) {
	from, _ := strconv.ParseUint(c.Query("from"), 10, 64)
	to, _ := strconv.ParseUint(c.Query("to"), 10, 64)
	ok, err := h.svc.IsFollowing(c.Request.Context(), from, to)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": ok})
}

func (h *FollowHandler) ListFollowings(c *gin.Context) {
	userID, cursor, limit := listParams(c)
	rows, next, err := h.svc.GetFollowing(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": toViews(rows), "next_cursor": next})
}

func (h *FollowHandler) ListFollowers(c *gin.Context) {
	userID, cursor, limit := listParams(c)
	rows, next, err := h.svc.GetFollowers(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": toViews(rows), "next_cursor": next})
}

// PendingIncoming lists requests awaiting the caller's decision.
func (h *FollowHandler) PendingIncoming(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, next, err := h.svc.ListPendingRequests(c.Request.Context(), userIDFromCtx(c), cursor, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": toViews(rows), "next_cursor": next})
}

// PendingOutgoing lists the caller's open requests.
func (h *FollowHandler) PendingOutgoing(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, next, err := h.svc.ListSentRequests(c.Request.Context(), userIDFromCtx(c), cursor, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": toViews(rows), "next_cursor": next})
}

func listParams(c *gin.Context) (userID, cursor uint64, limit int) {
	userID, _ = strconv.ParseUint(c.Query("user_id"), 10, 64)
	if userID == 0 {
		userID = userIDFromCtx(c)
	}
	cursor, _ = strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ = strconv.Atoi(c.Query("limit"))
	return
}
