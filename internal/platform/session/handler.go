package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
)

type Handler struct{ issuer *Issuer }

func RegisterRoutes(r gin.IRoutes, issuer *Issuer) {
	h := &Handler{issuer: issuer}
	r.POST("/sessions", h.Create)
}

type CreateSessionRequest struct {
	Role     string `json:"role" binding:"required"`
	MemberID int64  `json:"memberId"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	MemberID  int64     `json:"memberId,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// POST /sessions
func (h *Handler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.ErrInvalid("invalid json or missing role"))
		return
	}
	role, ok := ParseRole(req.Role)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalid("role must be Member or Staff"))
		return
	}
	if req.MemberID < 0 {
		apierr.Respond(c, apierr.ErrInvalid("memberId must be positive"))
		return
	}

	s := Session{Role: role, MemberID: req.MemberID}
	if role == RoleStaff {
		s.MemberID = 0
	}
	token, exp, err := h.issuer.Issue(s)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Token: token, Role: s.Role, MemberID: s.MemberID, ExpiresAt: exp})
}
