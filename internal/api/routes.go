package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tvanh/huiledger/internal/auth"
	"github.com/tvanh/huiledger/internal/middleware"
)

// SetupRoutes registers all HTTP routes on the given engine.
func SetupRoutes(r *gin.Engine, h *Handler, jwtManager *auth.JWTManager) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(jwtManager))
	{
		authed.GET("/me", h.Me)
		authed.GET("/stats", h.Stats)

		authed.POST("/groups", h.CreateGroup)
		authed.GET("/groups", h.ListGroups)
		authed.GET("/groups/:id", h.GetGroup)
		authed.PATCH("/groups/:id", h.UpdateGroup)
		authed.DELETE("/groups/:id", h.DeleteGroup)

		authed.GET("/groups/:id/members", h.ListMembers)
		authed.POST("/groups/:id/members", h.AddMember)
		authed.PATCH("/members/:id", h.UpdateMember)
		authed.DELETE("/members/:id", h.RemoveMember)

		authed.GET("/groups/:id/periods", h.ListPeriods)
		authed.POST("/periods/:id/settle", h.SettlePeriod)

		authed.GET("/groups/:id/payments", h.ListPayments)
		authed.POST("/payments/:id/paid", h.MarkPaymentPaid)
	}
}
