package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quimicinter/billing/pkg/tenantctx"
	"go.uber.org/zap"
)

const (
	HeaderSchema = "X-Schema-Name"
	HeaderUserID = "X-User-ID"
)

// SchemaContext resolves the tenant schema from the request header and
// injects it into the request context. Unknown or missing schemas fall
// back to the default tenant.
func (s *Server) SchemaContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		schema := s.registry.Resolve(c.GetHeader(HeaderSchema))
		ctx := tenantctx.WithSchema(c.Request.Context(), schema)
		if userID := strings.TrimSpace(c.GetHeader(HeaderUserID)); userID != "" {
			ctx = tenantctx.WithUserID(ctx, userID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AccessRequired gates tenant data behind the access validator: the caller
// must present an identity with a profile granting the requested schema.
// Denial and lookup failure are indistinguishable to the client.
func (s *Server) AccessRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		schema, _ := tenantctx.Schema(c.Request.Context())
		if !s.validator.ValidateAccess(c.Request.Context(), userID, schema) {
			s.metrics.RecordAccessDenied()
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("schema", c.GetHeader(HeaderSchema)),
		)
	}
}
