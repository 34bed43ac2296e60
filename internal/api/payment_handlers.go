package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvanh/huiledger/internal/middleware"
)

// ListPayments returns a group's payments, most recent due date first.
func (h *Handler) ListPayments(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	payments, err := h.paymentSvc.ListPayments(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// MarkPaymentPaid transitions a payment to paid.
func (h *Handler) MarkPaymentPaid(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	payment, err := h.paymentSvc.MarkPaid(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
