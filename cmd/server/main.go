package main

import (
	"os"
)

// @title ConfigHub Core API
// @version 1.0
// @description Centralized configuration store: environments, their variables and bulk JSON export

// @contact.name ConfigHub Team

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by POST /auth/login, sent as 'Bearer <token>'

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
