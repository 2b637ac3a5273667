package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MullerEsposito/starkoverflow-engine/internal/config"
	"github.com/MullerEsposito/starkoverflow-engine/internal/handler"
	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
	"github.com/MullerEsposito/starkoverflow-engine/internal/service"
	"github.com/MullerEsposito/starkoverflow-engine/internal/token"
	"github.com/MullerEsposito/starkoverflow-engine/internal/votes"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/db"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/metrics"
)

func main() {
	log := logger.NewLogger("engine")

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Warn(".env file not found")
	}

	cfg := config.Load()
	if cfg.OwnerAddress == "" {
		log.Fatal("OWNER_ADDRESS is required")
	}

	database, err := db.Connect(cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close()
	log.Info("Connected to database")

	if err := validateSchema(database); err != nil {
		log.WithError(err).Fatal("Schema validation failed")
	}

	rdb := votes.MustRedis(cfg.RedisURL)
	defer rdb.Close()
	log.Info("Connected to redis")

	m := metrics.NewMetrics("engine")

	// Repositories
	ids := repository.NewIDAllocator(database)
	forumRepo := repository.NewForumRepository(database, ids)
	questionRepo := repository.NewQuestionRepository(database, ids)
	answerRepo := repository.NewAnswerRepository(database, ids)
	stakeRepo := repository.NewStakeRepository(database)
	userRepo := repository.NewUserRepository(database)
	resolutionRepo := repository.NewResolutionRepository(database)

	ledger := token.NewLedger(database)
	tally := votes.NewTally(rdb)

	// Services. The gate is shared: every fund-moving command serializes
	// against the others.
	gate := service.NewCommandGate()
	forumService := service.NewForumService(forumRepo, cfg.OwnerAddress, log)
	questionService := service.NewQuestionService(questionRepo, forumRepo, stakeRepo, ledger, cfg.EscrowAccount, gate, log)
	answerService := service.NewAnswerService(answerRepo, questionRepo, tally, log)
	stakeService := service.NewStakeService(stakeRepo, questionRepo, ledger, cfg.EscrowAccount, gate, log)
	resolutionService := service.NewResolutionService(questionRepo, answerRepo, stakeRepo, resolutionRepo, ledger, cfg.EscrowAccount, gate, log)
	userService := service.NewUserService(userRepo)

	// Handlers
	router := handler.NewRouter(
		log,
		m,
		handler.NewForumHandler(forumService),
		handler.NewQuestionHandler(questionService, stakeService, resolutionService, m),
		handler.NewAnswerHandler(answerService),
		handler.NewUserHandler(userService, ledger, ledger, cfg.FaucetEnabled),
	)

	// Metrics endpoint on its own port
	go func() {
		if err := metrics.Serve(cfg.MetricsPort); err != nil {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	// Pool stats every 15s
	poolTicker := time.NewTicker(15 * time.Second)
	defer poolTicker.Stop()
	go func() {
		for range poolTicker.C {
			m.RecordDBPoolStats(database.Stats())
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("Engine listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
	log.Info("Server stopped")
}

// validateSchema checks the tables the engine writes to before serving
// traffic, so a migration mismatch fails fast instead of mid-request.
func validateSchema(database *sql.DB) error {
	guard := db.NewSchemaGuard(database)
	tables := []db.TableSchema{
		{Name: "entity_counters", Columns: []db.ColumnType{
			{Name: "entity", DataType: "varchar"},
			{Name: "last_id", DataType: "bigint"},
		}},
		{Name: "forums", Columns: []db.ColumnType{
			{Name: "id", DataType: "bigint"},
			{Name: "name", DataType: "varchar"},
			{Name: "icon_cid", DataType: "varchar"},
			{Name: "total_staked", DataType: "decimal"},
			{Name: "total_questions", DataType: "bigint"},
			{Name: "deleted", DataType: "tinyint"},
		}},
		{Name: "questions", Columns: []db.ColumnType{
			{Name: "id", DataType: "bigint"},
			{Name: "forum_id", DataType: "bigint"},
			{Name: "author", DataType: "varchar"},
			{Name: "status", DataType: "tinyint"},
		}},
		{Name: "answers", Columns: []db.ColumnType{
			{Name: "id", DataType: "bigint"},
			{Name: "question_id", DataType: "bigint"},
			{Name: "correct", DataType: "tinyint"},
		}},
		{Name: "stakes", Columns: []db.ColumnType{
			{Name: "question_id", DataType: "bigint"},
			{Name: "staker", DataType: "varchar"},
			{Name: "amount", DataType: "decimal"},
		}},
		{Name: "users", Columns: []db.ColumnType{
			{Name: "address", DataType: "varchar"},
			{Name: "reputation", DataType: "bigint"},
		}},
		{Name: "balances", Columns: []db.ColumnType{
			{Name: "address", DataType: "varchar"},
			{Name: "balance", DataType: "decimal"},
		}},
	}
	for _, table := range tables {
		if err := guard.ValidateTable(table); err != nil {
			return err
		}
	}
	return nil
}
