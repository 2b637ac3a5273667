package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MullerEsposito/starkoverflow-engine/internal/service"
)

type ForumHandler struct {
	forums *service.ForumService
}

func NewForumHandler(forums *service.ForumService) *ForumHandler {
	return &ForumHandler{forums: forums}
}

// Create handles POST /api/forums
func (h *ForumHandler) Create(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req struct {
		Name    string `json:"name" binding:"required"`
		IconCID string `json:"iconCid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	forum, err := h.forums.Create(c.Request.Context(), caller, req.Name, req.IconCID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, forum)
}

// Update handles PUT /api/forums/:id
func (h *ForumHandler) Update(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	forumID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name    string `json:"name" binding:"required"`
		IconCID string `json:"iconCid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := h.forums.Update(c.Request.Context(), caller, forumID, req.Name, req.IconCID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /api/forums/:id
func (h *ForumHandler) Delete(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	forumID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.forums.Delete(c.Request.Context(), caller, forumID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Get handles GET /api/forums/:id
func (h *ForumHandler) Get(c *gin.Context) {
	forumID, ok := pathID(c, "id")
	if !ok {
		return
	}

	forum, err := h.forums.Get(c.Request.Context(), forumID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, forum)
}

// List handles GET /api/forums
func (h *ForumHandler) List(c *gin.Context) {
	pageSize, page, ok := pageParams(c)
	if !ok {
		return
	}

	forums, total, hasNext, err := h.forums.List(c.Request.Context(), pageSize, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        forums,
		"total":       total,
		"hasNextPage": hasNext,
	})
}

// Owner handles GET /api/owner
func (h *ForumHandler) Owner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"owner": h.forums.Owner()})
}
