package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/itay19101973/E-commerce-system/internal/shared/errors"
)

// respondProblem sends an RFC 7807 response through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError maps a status code onto the matching problem template.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusUnprocessableEntity:
		problem = apierrors.ErrUnprocessable.WithDetail(err.Error())
	default:
		// Internal failures never leak storage detail beyond this generic
		// description.
		problem = apierrors.ErrInternal.WithDetail("internal error, try again later")
	}
	respondProblem(c, problem)
}
