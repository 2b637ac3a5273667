package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MullerEsposito/starkoverflow-engine/internal/service"
)

type AnswerHandler struct {
	answers *service.AnswerService
}

func NewAnswerHandler(answers *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answers: answers}
}

// Submit handles POST /api/questions/:id/answers
func (h *AnswerHandler) Submit(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		DescriptionCID string `json:"descriptionCid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	answer, err := h.answers.Submit(c.Request.Context(), caller, questionID, req.DescriptionCID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// Get handles GET /api/answers/:id
func (h *AnswerHandler) Get(c *gin.Context) {
	answerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	answer, err := h.answers.Get(c.Request.Context(), answerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// ListByQuestion handles GET /api/questions/:id/answers
func (h *AnswerHandler) ListByQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	pageSize, page, ok := pageParams(c)
	if !ok {
		return
	}

	answers, total, hasNext, err := h.answers.ListFor(c.Request.Context(), questionID, pageSize, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        answers,
		"total":       total,
		"hasNextPage": hasNext,
	})
}

// Vote handles POST /api/answers/:id/votes
func (h *AnswerHandler) Vote(c *gin.Context) {
	if _, ok := callerAddress(c); !ok {
		return
	}
	answerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := h.answers.Vote(c.Request.Context(), answerID, req.Direction); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
