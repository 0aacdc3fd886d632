package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quimicinter/billing/internal/tenant"
)

type accessResponse struct {
	UserID     string `json:"user_id"`
	SchemaName string `json:"schema_name"`
	Allowed    bool   `json:"allowed"`
}

// CheckAccess answers whether the caller may access the requested tenant.
// The answer is always 200 with a boolean; denial and lookup failure are
// deliberately indistinguishable.
func (s *Server) CheckAccess(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	schema := tenant.Normalize(c.Param("schema"))
	allowed := s.validator.ValidateAccess(c.Request.Context(), userID, schema)
	if !allowed {
		s.metrics.RecordAccessDenied()
	}

	c.JSON(http.StatusOK, accessResponse{
		UserID:     userID,
		SchemaName: schema,
		Allowed:    allowed,
	})
}
