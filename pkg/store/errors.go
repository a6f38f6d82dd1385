package store

import (
	"fmt"
	"net/http"
)

// Error is a failure reported by the row store itself, as opposed to a
// transport failure.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return "row store error"
}

// Forbidden reports whether the store refused the request on access grounds.
func (e *Error) Forbidden() bool {
	return e.Code == "42501" || e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
