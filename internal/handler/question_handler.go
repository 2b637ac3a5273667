package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MullerEsposito/starkoverflow-engine/internal/service"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/metrics"
)

type QuestionHandler struct {
	questions   *service.QuestionService
	stakes      *service.StakeService
	resolutions *service.ResolutionService
	metrics     *metrics.Metrics
}

func NewQuestionHandler(
	questions *service.QuestionService,
	stakes *service.StakeService,
	resolutions *service.ResolutionService,
	m *metrics.Metrics,
) *QuestionHandler {
	return &QuestionHandler{questions: questions, stakes: stakes, resolutions: resolutions, metrics: m}
}

// Ask handles POST /api/questions
func (h *QuestionHandler) Ask(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req struct {
		ForumID        uint64   `json:"forumId" binding:"required"`
		Title          string   `json:"title" binding:"required"`
		DescriptionCID string   `json:"descriptionCid" binding:"required"`
		RepositoryURL  string   `json:"repositoryUrl"`
		Tags           []string `json:"tags"`
		Amount         string   `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid amount"})
		return
	}

	question, err := h.questions.Ask(c.Request.Context(), service.AskInput{
		ForumID:        req.ForumID,
		Author:         caller,
		Title:          req.Title,
		DescriptionCID: req.DescriptionCID,
		RepositoryURL:  req.RepositoryURL,
		Tags:           req.Tags,
		Amount:         amount,
	})
	if err != nil {
		if errors.Is(err, service.ErrTransferFailed) {
			h.metrics.TransfersRejected.Inc()
		}
		respondError(c, err)
		return
	}

	h.metrics.QuestionsAsked.Inc()
	c.JSON(http.StatusCreated, question)
}

// Get handles GET /api/questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	question, err := h.questions.Get(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// ListByForum handles GET /api/forums/:id/questions
func (h *QuestionHandler) ListByForum(c *gin.Context) {
	forumID, ok := pathID(c, "id")
	if !ok {
		return
	}
	pageSize, page, ok := pageParams(c)
	if !ok {
		return
	}

	questions, total, hasNext, err := h.questions.List(c.Request.Context(), forumID, pageSize, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        questions,
		"total":       total,
		"hasNextPage": hasNext,
	})
}

// Stake handles POST /api/questions/:id/stake
func (h *QuestionHandler) Stake(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid amount"})
		return
	}

	if err := h.stakes.Deposit(c.Request.Context(), caller, questionID, amount); err != nil {
		if errors.Is(err, service.ErrTransferFailed) {
			h.metrics.TransfersRejected.Inc()
		}
		respondError(c, err)
		return
	}

	h.metrics.StakesDeposited.Inc()
	c.Status(http.StatusNoContent)
}

// TotalStaked handles GET /api/questions/:id/stake
func (h *QuestionHandler) TotalStaked(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	total, err := h.stakes.TotalFor(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questionId": questionID, "totalStaked": total})
}

// Stakes handles GET /api/questions/:id/stakes
func (h *QuestionHandler) Stakes(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	stakes, err := h.stakes.ListFor(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questionId": questionID, "stakes": stakes})
}

// MarkCorrect handles POST /api/questions/:id/correct-answer
func (h *QuestionHandler) MarkCorrect(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		AnswerID uint64 `json:"answerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if err := h.resolutions.MarkCorrect(c.Request.Context(), caller, questionID, req.AnswerID); err != nil {
		if errors.Is(err, service.ErrTransferFailed) {
			h.metrics.TransfersRejected.Inc()
		}
		respondError(c, err)
		return
	}

	h.metrics.ResolutionsTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"resolved": true})
}

// CorrectAnswer handles GET /api/questions/:id/correct-answer
func (h *QuestionHandler) CorrectAnswer(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	answer, err := h.resolutions.CorrectAnswer(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if answer == nil {
		c.JSON(http.StatusOK, gin.H{"questionId": questionID, "answerId": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questionId": questionID, "answerId": answer.ID})
}
