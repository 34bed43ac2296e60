// Package api exposes the HTTP surface: gin handlers over the service
// layer, plus health and metrics endpoints.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvanh/huiledger/internal/auth"
	"github.com/tvanh/huiledger/internal/service"
	"github.com/tvanh/huiledger/internal/settlement"
	"github.com/tvanh/huiledger/internal/storage"
)

// Handler bundles the services behind the HTTP routes.
type Handler struct {
	authSvc    *service.AuthService
	groupSvc   *service.GroupService
	periodSvc  *service.PeriodService
	paymentSvc *service.PaymentService
}

// NewHandler creates a Handler over the given services.
func NewHandler(authSvc *service.AuthService, groupSvc *service.GroupService, periodSvc *service.PeriodService, paymentSvc *service.PaymentService) *Handler {
	return &Handler{
		authSvc:    authSvc,
		groupSvc:   groupSvc,
		periodSvc:  periodSvc,
		paymentSvc: paymentSvc,
	}
}

// respondErr maps domain errors onto HTTP statuses with a JSON error body.
// Every failure surfaces as a human-readable message; none aborts the
// process.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case service.IsValidation(err),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, settlement.ErrNegativeBid):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, settlement.ErrWinnerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, settlement.ErrAlreadySettled),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
