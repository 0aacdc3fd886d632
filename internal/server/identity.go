package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	profiledomain "github.com/quimicinter/billing/internal/profile/domain"
)

type identityCreatedRequest struct {
	UserID   string         `json:"user_id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"metadata"`
}

// IdentityCreated is the hook the identity provider calls after creating a
// new identity. It provisions profile rows for the resolved tenant and,
// for administrators, replicates across the replication set.
func (s *Server) IdentityCreated(c *gin.Context) {
	var req identityCreatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		AbortWithError(c, newValidationError("user_id", "required", "user_id is required"))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		AbortWithError(c, newValidationError("email", "required", "email is required"))
		return
	}

	result, err := s.provisioner.Provision(c.Request.Context(), profiledomain.IdentityCreated{
		UserID:       req.UserID,
		Email:        req.Email,
		Metadata:     req.Metadata,
		HeaderSchema: c.GetHeader(HeaderSchema),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
