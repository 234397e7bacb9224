// Package errors shapes API failures as RFC 7807 Problem Details.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is the wire form of an API error, per RFC 7807.
type ProblemDetail struct {
	// Type identifies the problem class as a URI reference.
	Type string `json:"type"`
	// Title is a short human-readable summary of the problem class.
	Title string `json:"title"`
	// Status is the HTTP status code of this occurrence.
	Status int `json:"status"`
	// Detail explains this specific occurrence, when there is more to say.
	Detail string `json:"detail,omitempty"`
	// Instance points at the request path that produced the problem.
	Instance string `json:"instance,omitempty"`
}

// Error implements the error interface so problems can travel as errors.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy carrying an occurrence-specific message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithInstance returns a copy pinned to a specific request path.
func (p ProblemDetail) WithInstance(instance string) ProblemDetail {
	p.Instance = instance
	return p
}

// Problem type URIs used by the commerce API.
const (
	TypeBadRequest    = "/problems/bad-request"
	TypeNotFound      = "/problems/not-found"
	TypeUnauthorized  = "/problems/unauthorized"
	TypeUnprocessable = "/problems/unprocessable-entity"
	TypeInternal      = "/problems/internal-error"
)

// Problem templates. Handlers stamp a detail onto one of these rather than
// building problems from scratch.
var (
	// ErrBadRequest covers malformed or semantically invalid requests.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// ErrNotFound covers lookups of resources that do not exist.
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrUnauthorized covers missing, expired, or revoked credentials.
	ErrUnauthorized = ProblemDetail{
		Type:   TypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
	}

	// ErrUnprocessable covers well-formed requests the system cannot act on,
	// such as a product name with no matching product.
	ErrUnprocessable = ProblemDetail{
		Type:   TypeUnprocessable,
		Title:  "Unprocessable Entity",
		Status: http.StatusUnprocessableEntity,
	}

	// ErrInternal covers unexpected failures. Its detail stays generic so
	// storage errors never reach clients.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}
)
