package main

import (
	"fmt"
	"log"
	"os"

	"ai-task-test-platform/backend/internal/apigateway"
	"ai-task-test-platform/backend/internal/auth"
	"ai-task-test-platform/backend/internal/coreengine/modeladapters"
	"ai-task-test-platform/backend/internal/coreengine/taskrunners"
	"ai-task-test-platform/backend/internal/datastore"
	"ai-task-test-platform/backend/internal/jobmanagement"
	"ai-task-test-platform/backend/internal/objectstore"
)

func main() {
	auth.LoadAdminCredentials()

	if err := datastore.InitDB(databaseDSN()); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer datastore.DB.Close()

	// Object storage is optional: exports and document uploads degrade
	// gracefully when it is absent.
	if err := objectstore.InitMinioClient(); err != nil {
		log.Printf("WARNING: object storage unavailable: %v", err)
	}

	registry := modeladapters.NewRegistry(modeladapters.ConfigFromEnv())
	runner := taskrunners.NewRunner(registry)
	runs := jobmanagement.NewRunService(runner)
	jobs := jobmanagement.NewJobService(runs)

	router := apigateway.SetupRouter(runs, jobs)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}
	log.Printf("Starting server on :%s", serverPort)
	if err := router.Run(":" + serverPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func databaseDSN() string {
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := envOr("DB_NAME", "ai_task_test_platform")
	dbSSLMode := envOr("DB_SSLMODE", "disable")

	if dbPassword == "" {
		log.Println("WARNING: DB_PASSWORD environment variable not set.")
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
