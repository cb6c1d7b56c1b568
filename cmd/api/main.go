package main

import (
	"os"

	"github.com/yigit/campuscare/internal/pkg/logger"
)

// @title CampusCare API
// @version 1.0
// @description API for CampusCare student onboarding and counselor assignment
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@campuscare.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Use the default logger set up by the logger package's init
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
