package services

import (
	"github.com/kendall-kelly/complaint-desk-api/policy"
)

// Caller is the registered user performing a request
type Caller struct {
	UserID string
	Email  string
	Role   string // empty when the identity has no users row
}

// Can reports whether the caller's role holds op
func (c Caller) Can(gate *policy.Gate, op policy.Operation) bool {
	return gate.Allow(c.Role, op)
}

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}
