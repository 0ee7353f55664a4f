package main

import (
	"resourceshop/internal/api"

	_ "resourceshop/docs"

	"github.com/sirupsen/logrus"
)

// @title Resource Store API
// @version 1.0
// @description Credit based store for hosting resource packages and individual resources.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT issued by the panel.

//go:generate swag init -g cmd/backend/main.go -o docs -d ../../

func main() {
	logrus.Info("App start")
	api.StartServer()
	logrus.Info("App terminated")
}
