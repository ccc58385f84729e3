// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go-volunteer/controllers"
	"go-volunteer/routes"
	"go-volunteer/services"
	"go-volunteer/store"
	"go-volunteer/utils"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	log.Logger = logger

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))
	if len(utils.JwtKey) == 0 {
		logger.Fatal().Msg("JWT_SECRET is not set")
	}

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client, err := utils.ConnectDB(os.Getenv("MONGO_URI"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "volunteer_connect"
	}
	db := client.Database(dbName)

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.EnsureIndexes(indexCtx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}

	// Stores
	userStore := store.NewMongoUserStore(db)
	volunteerStore := store.NewMongoVolunteerStore(db)
	organizationStore := store.NewMongoOrganizationStore(db)
	eventStore := store.NewMongoEventStore(db)

	// Services
	verificationService := services.NewVerificationService(userStore, emailService, logger)
	authService := services.NewAuthService(userStore, volunteerStore, organizationStore, verificationService, logger)
	eventService := services.NewEventService(eventStore, organizationStore, volunteerStore, logger)

	// Controllers
	authController := controllers.NewAuthController(authService, verificationService, logger)
	eventController := controllers.NewEventController(eventService, logger)
	volunteerController := controllers.NewVolunteerController(volunteerStore, logger)
	organizationController := controllers.NewOrganizationController(organizationStore, logger)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, authController, eventController, volunteerController, organizationController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	logger.Info().Str("port", port).Msg("server is running")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
