package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/metrics"
)

// NewRouter assembles the HTTP surface. Route shape mirrors the resource
// hierarchy: forums own questions, questions own answers and stakes.
func NewRouter(
	log *logger.Logger,
	m *metrics.Metrics,
	forums *ForumHandler,
	questions *QuestionHandler,
	answers *AnswerHandler,
	users *UserHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(logger.Middleware(log))
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", CallerHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/owner", forums.Owner)

		api.POST("/forums", forums.Create)
		api.GET("/forums", forums.List)
		api.GET("/forums/:id", forums.Get)
		api.PUT("/forums/:id", forums.Update)
		api.DELETE("/forums/:id", forums.Delete)
		api.GET("/forums/:id/questions", questions.ListByForum)

		api.POST("/questions", questions.Ask)
		api.GET("/questions/:id", questions.Get)
		api.POST("/questions/:id/stake", questions.Stake)
		api.GET("/questions/:id/stake", questions.TotalStaked)
		api.GET("/questions/:id/stakes", questions.Stakes)
		api.POST("/questions/:id/correct-answer", questions.MarkCorrect)
		api.GET("/questions/:id/correct-answer", questions.CorrectAnswer)
		api.POST("/questions/:id/answers", answers.Submit)
		api.GET("/questions/:id/answers", answers.ListByQuestion)

		api.GET("/answers/:id", answers.Get)
		api.POST("/answers/:id/votes", answers.Vote)

		api.GET("/users/:address", users.Get)
		api.GET("/balances/:address", users.Balance)
		api.POST("/faucet", users.Faucet)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
