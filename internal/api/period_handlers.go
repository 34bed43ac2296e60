package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvanh/huiledger/internal/middleware"
	"github.com/tvanh/huiledger/internal/service"
)

// ListPeriods returns a group's periods by period number.
func (h *Handler) ListPeriods(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	periods, err := h.groupSvc.ListPeriods(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, periods)
}

// SettlePeriod resolves a period's winner and bid, returning the completed
// period and the payment obligations it generated.
func (h *Handler) SettlePeriod(c *gin.Context) {
	var bid service.BidForm
	if err := c.ShouldBindJSON(&bid); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := middleware.CurrentIdentity(c)
	res, err := h.periodSvc.SettlePeriod(c.Request.Context(), id.UserID, c.Param("id"), bid)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":   res.Period,
		"winner":   res.Winner,
		"group":    res.Group,
		"payments": res.Payments,
	})
}
