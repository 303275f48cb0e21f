package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/lookup"
	"github.com/litescript/ls-eclipses/internal/plan"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		verr *catalog.ValidationError
		perr *plan.ParseError
		serr *lookup.ServiceError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &perr):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrExists):
		return http.StatusConflict
	case errors.Is(err, lookup.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &serr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, lookup.ErrNotFound):
		return "not_found"
	}
	return "error"
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
