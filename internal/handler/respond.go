package handler

import (
	"net/http"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"

	"github.com/gin-gonic/gin"
)

// fail maps the error taxonomy onto HTTP statuses. Storage failures return a
// generic message so driver details never leak to clients.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch errs.KindOf(err) {
	case errs.KindValidation:
		status, msg = http.StatusBadRequest, err.Error()
	case errs.KindNotFound:
		status, msg = http.StatusNotFound, err.Error()
	case errs.KindConflict:
		status, msg = http.StatusConflict, err.Error()
	case errs.KindForbidden:
		status, msg = http.StatusForbidden, err.Error()
	}
	c.JSON(status, gin.H{"msg": msg})
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

// userView is the shape every response about another user takes: no password
// hash, no email.
type userView struct {
	ID                uint64 `json:"id"`
	Username          string `json:"username"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`
	IsPrivate         bool   `json:"is_private"`
}

func toView(u *model.User) userView {
	return userView{
		ID:                u.ID,
		Username:          u.Username,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
		IsPrivate:         u.IsPrivate,
	}
}

func toViews(users []model.User) []userView {
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, toView(&users[i]))
	}
	return out
}
