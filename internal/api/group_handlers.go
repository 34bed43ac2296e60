package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvanh/huiledger/internal/middleware"
	"github.com/tvanh/huiledger/internal/service"
)

// CreateGroup creates a group with its full period schedule and optional
// seeded members.
func (h *Handler) CreateGroup(c *gin.Context) {
	var form service.CreateGroupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupSvc.CreateGroup(c.Request.Context(), middleware.CurrentIdentity(c), form)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// ListGroups returns the caller's groups, newest first.
func (h *Handler) ListGroups(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	groups, err := h.groupSvc.ListGroups(c.Request.Context(), id.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup returns one group by ID.
func (h *Handler) GetGroup(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	group, err := h.groupSvc.GetGroup(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// UpdateGroup applies a partial update to a group's name or status.
func (h *Handler) UpdateGroup(c *gin.Context) {
	var form service.UpdateGroupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := middleware.CurrentIdentity(c)
	group, err := h.groupSvc.UpdateGroup(c.Request.Context(), id.UserID, c.Param("id"), form)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroup removes a group and everything it owns.
func (h *Handler) DeleteGroup(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if err := h.groupSvc.DeleteGroup(c.Request.Context(), id.UserID, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMembers returns a group's members by join rank.
func (h *Handler) ListMembers(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	members, err := h.groupSvc.ListMembers(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// AddMember joins one member to a group.
func (h *Handler) AddMember(c *gin.Context) {
	var form service.MemberForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := middleware.CurrentIdentity(c)
	member, err := h.groupSvc.AddMember(c.Request.Context(), id.UserID, c.Param("id"), form)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// UpdateMember edits a member's name or email.
func (h *Handler) UpdateMember(c *gin.Context) {
	var form service.MemberForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := middleware.CurrentIdentity(c)
	member, err := h.groupSvc.UpdateMember(c.Request.Context(), id.UserID, c.Param("id"), form)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// RemoveMember drops a member from a not-yet-started group.
func (h *Handler) RemoveMember(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if err := h.groupSvc.RemoveMember(c.Request.Context(), id.UserID, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
