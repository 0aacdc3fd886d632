package domain

import (
	"context"
	"errors"
)

// IdentityCreated is the event consumed when the external identity provider
// creates a new identity. Metadata keys schema_name, role and full_name are
// optional; HeaderSchema carries the inbound x-schema-name header value.
type IdentityCreated struct {
	UserID       string
	Email        string
	Metadata     map[string]any
	HeaderSchema string
}

// MetadataSchema returns the schema_name metadata field, if present.
func (e IdentityCreated) MetadataSchema() string {
	return e.metadataString("schema_name")
}

// MetadataRole returns the role metadata field, if present.
func (e IdentityCreated) MetadataRole() string {
	return e.metadataString("role")
}

// MetadataFullName returns the full_name metadata field, if present.
func (e IdentityCreated) MetadataFullName() string {
	return e.metadataString("full_name")
}

func (e IdentityCreated) metadataString(key string) string {
	if e.Metadata == nil {
		return ""
	}
	value, ok := e.Metadata[key].(string)
	if !ok {
		return ""
	}
	return value
}

// ProvisionResult reports where the identity was provisioned.
type ProvisionResult struct {
	SchemaName string `json:"schema_name"`
	Role       Role   `json:"role"`
	// Replicated lists the additional schemas that received an admin
	// profile, excluding the resolved schema itself.
	Replicated []string `json:"replicated,omitempty"`
}

// Provisioner provisions profiles for newly created identities. It is
// invoked exactly once per identity, synchronously, and its upserts share
// one transaction: a later failure rolls back the earlier writes.
type Provisioner interface {
	Provision(ctx context.Context, event IdentityCreated) (*ProvisionResult, error)
}

// Validator answers whether an identity may access a tenant schema.
// Absence of data is denial, not an error: callers only ever see a boolean.
type Validator interface {
	ValidateAccess(ctx context.Context, userID, schemaName string) bool
}

var (
	ErrInvalidUserID = errors.New("invalid_user_id")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidRole   = errors.New("invalid_role")
)
