package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"freewriter/internal/shared/utils"
	"freewriter/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is for local development; deployments use the real environment
	envErr := godotenv.Load()

	env := utils.GetEnvVariable("APP_ENV", "development")
	logger.Init(env, utils.GetEnvVariable("LOG_LEVEL", "info"))
	if envErr != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Str("environment", env).Msg("Starting FreeWriter API")

	Serve()
}
