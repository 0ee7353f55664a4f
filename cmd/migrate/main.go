package main

import (
	"resourceshop/internal/app/dsn"
	"resourceshop/internal/app/repository"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Set DB_DSN or DB_HOST")
	}

	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{
		Logger: repository.NewGormLogger(),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	logrus.Info("Connected to database successfully")

	if err = repository.Migrate(db); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}
	logrus.Info("Database migration completed successfully")
}
