package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"exam-service/internal/config"
	"exam-service/internal/db"
	"exam-service/internal/event"
	"exam-service/internal/exam"
	"exam-service/internal/handlers"
	"exam-service/internal/models"
	"exam-service/internal/repository"
	"exam-service/internal/selection"
	"exam-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	db.InitMongo(cfg.MongoURI)

	// RabbitMQ event publisher (optional)
	var publisher *event.Publisher
	if cfg.RabbitURI != "" && cfg.RabbitExchange != "" {
		var err error
		publisher, err = event.NewPublisher(cfg.RabbitURI, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, exam events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(cfg.Database)

	// Question bank
	questionRepo := repository.NewQuestionRepository(database)
	questionService := service.NewQuestionService(questionRepo)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Performance stats and pool
	statsRepo := repository.NewStatsRepository(database)
	pool := repository.NewPoolFetcher(questionRepo, statsRepo)

	// Sessions
	sessionRepo := repository.NewSessionRepository(database)
	answerRepo := repository.NewAnswerRepository(database)
	answerService := service.NewAnswerService(answerRepo)

	defaults := exam.DefaultConfig()
	defaults.PassThreshold = cfg.PassThreshold
	defaults.TimeBudget = cfg.ExamDuration

	defaultComp := models.Composition{
		models.CategoryGAT:     cfg.DefaultGATCount,
		models.CategorySubject: cfg.DefaultSubjectCount,
	}
	sessionService := service.NewSessionService(
		sessionRepo,
		answerRepo,
		statsRepo,
		pool,
		selection.New(),
		defaults,
		defaultComp,
	)
	sessionHandler := handlers.NewSessionHandler(sessionService, answerService)

	// Results
	resultService := service.NewResultService(sessionRepo)
	resultHandler := handlers.NewResultHandler(resultService)

	// Public routes - question bank
	publicBank := r.Group("/public/exam")
	{
		publicBank.GET("/question", questionHandler.ListQuestions)
		publicBank.GET("/question/:id", questionHandler.GetQuestion)
		publicBank.GET("/bank/counts", questionHandler.BankCounts)
		publicBank.GET("/bank/subcategories", questionHandler.SubCategoryCounts)
		publicBank.GET("/session/:id", sessionHandler.GetSession)
		publicBank.GET("/user/:id/sessions", resultHandler.GetSessionsByUser)
		publicBank.GET("/user/:id/weak-areas", resultHandler.GetWeakAreas)
	}

	// Protected routes - question bank maintenance
	protectedBank := r.Group("/protected/exam/question", requireUser())
	{
		protectedBank.POST("/", func(c *gin.Context) {
			questionHandler.CreateQuestion(c)
			publisher.Publish(event.QuestionsImported, gin.H{"count": 1})
		})
		protectedBank.PUT("/:id", questionHandler.UpdateQuestion)
		protectedBank.DELETE("/:id", questionHandler.DeleteQuestion)
		protectedBank.DELETE("/source/:source", questionHandler.DeleteBySource)
		protectedBank.POST("/bulk", func(c *gin.Context) {
			questionHandler.ImportQuestions(c)
			publisher.Publish(event.QuestionsImported, gin.H{"user_id": c.GetHeader("X-User-ID")})
		})
	}

	setupSessionRoutes(r, sessionHandler, publisher)

	log.Printf("exam-service listening on :%s", cfg.Port)
	r.Run(":" + cfg.Port)
}

// requireUser rejects protected requests without an X-User-ID header (set by
// the gateway's auth middleware upstream).
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func setupSessionRoutes(r *gin.Engine, sessionHandler *handlers.SessionHandler, publisher *event.Publisher) {
	protected := r.Group("/protected/exam/session", requireUser())

	// Request logging for the exam flow
	protected.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[SESSION] %v | %3d | %13v | %15s | %-7s %#v\n%s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			param.ErrorMessage,
		)
	}))

	{
		// === SESSION LIFECYCLE ===

		protected.POST("/", func(c *gin.Context) {
			sessionHandler.CreateSession(c)
			publisher.Publish(event.SessionCreated, gin.H{
				"user_id": c.GetHeader("X-User-ID"),
			})
		})

		// === EXAM INTERACTION ===

		protected.GET("/:id/question", sessionHandler.CurrentQuestion)

		protected.POST("/:id/answer", func(c *gin.Context) {
			sessionHandler.SubmitAnswer(c)
			publisher.Publish(event.AnswerSubmitted, gin.H{
				"session_id": c.Param("id"),
				"user_id":    c.GetHeader("X-User-ID"),
			})
		})

		protected.POST("/:id/navigate", sessionHandler.Navigate)

		// === COMPLETION ===

		protected.POST("/:id/finalize", func(c *gin.Context) {
			sessionHandler.Finalize(c)
			publisher.Publish(event.SessionCompleted, gin.H{
				"session_id": c.Param("id"),
				"user_id":    c.GetHeader("X-User-ID"),
			})
			publisher.Publish(event.StatsUpdated, gin.H{
				"session_id": c.Param("id"),
				"user_id":    c.GetHeader("X-User-ID"),
			})
		})

		protected.POST("/:id/abandon", func(c *gin.Context) {
			sessionHandler.Abandon(c)
			publisher.Publish(event.SessionAbandoned, gin.H{
				"session_id": c.Param("id"),
				"user_id":    c.GetHeader("X-User-ID"),
			})
			publisher.Publish(event.StatsUpdated, gin.H{
				"session_id": c.Param("id"),
				"user_id":    c.GetHeader("X-User-ID"),
			})
		})

		// === STATUS ===

		protected.GET("/:id/summary", sessionHandler.Summary)
		protected.GET("/:id/remaining", sessionHandler.RemainingTime)
		protected.GET("/:id/answers", sessionHandler.GetSessionAnswers)
	}
}
