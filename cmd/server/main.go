package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"quizhub/internal/attempt"
	"quizhub/internal/auth"
	"quizhub/internal/models"
	"quizhub/internal/quiz"
	"quizhub/internal/user"
	"quizhub/pkg/cache"
	"quizhub/pkg/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.QuizSet{},
		&models.Question{},
		&models.Attempt{},
		&models.QuizSetRating{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	quizRepo := quiz.NewRepository(db)
	attemptRepo := attempt.NewRepository(db)
	userRepo := user.NewRepository(db)

	// Initialize services
	jwtSecret := os.Getenv("JWT_SECRET")
	authService := auth.NewService(authRepo, jwtSecret)
	quizService := quiz.NewService(quizRepo, redisCache)
	attemptService := attempt.NewService(attemptRepo, redisCache)
	userService := user.NewService(userRepo)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	quizHandler := quiz.NewHandler(quizService)
	attemptHandler := attempt.NewHandler(attemptService)
	userHandler := user.NewHandler(userService)

	// Setup router
	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Public routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/quiz-sets", quizHandler.ListQuizSets).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/quiz-sets/{quizId}/leaderboard", attemptHandler.GetLeaderboard).Methods("GET", "OPTIONS")

	// Authenticated routes
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(jwtSecret))

	apiRouter.HandleFunc("/me", userHandler.GetMe).Methods("GET")
	apiRouter.HandleFunc("/me/attempts", userHandler.GetMyAttempts).Methods("GET")
	apiRouter.HandleFunc("/me/ratings", userHandler.GetMyRatings).Methods("GET")

	apiRouter.HandleFunc("/quiz-sets/{quizId}", quizHandler.GetQuizSet).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/quiz-sets/{quizId}/questions", quizHandler.GetQuestions).Methods("GET")
	apiRouter.HandleFunc("/quiz-sets/{quizId}/attempt", attemptHandler.SubmitAttempt).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz-sets/{quizId}/rate", quizHandler.RateQuizSet).Methods("POST", "OPTIONS")

	// Admin routes - quiz authoring
	adminRouter := apiRouter.NewRoute().Subrouter()
	adminRouter.Use(auth.RequireRole(models.RoleAdmin))

	adminRouter.HandleFunc("/my/quiz-sets", quizHandler.ListMyQuizSets).Methods("GET")
	adminRouter.HandleFunc("/quiz-sets", quizHandler.CreateQuizSet).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/quiz-sets/{quizId}", quizHandler.UpdateQuizSet).Methods("PATCH")
	adminRouter.HandleFunc("/quiz-sets/{quizId}", quizHandler.DeleteQuizSet).Methods("DELETE")
	adminRouter.HandleFunc("/quiz-sets/{quizId}/publish", quizHandler.PublishQuizSet).Methods("PATCH")
	adminRouter.HandleFunc("/quiz-sets/{quizId}/attempts", attemptHandler.GetQuizSetAttempts).Methods("GET")
	adminRouter.HandleFunc("/quiz-sets/{quizId}/questions", quizHandler.AddQuestion).Methods("POST")
	adminRouter.HandleFunc("/quiz-sets/{quizId}/questions/bulk", quizHandler.AddBulkQuestions).Methods("POST")
	adminRouter.HandleFunc("/questions/{questionId}", quizHandler.EditQuestion).Methods("PUT")
	adminRouter.HandleFunc("/questions/{questionId}", quizHandler.DeleteQuestion).Methods("DELETE")

	// Setup server with CORS handler
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
