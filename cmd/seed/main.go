package main

import (
	"context"
	"flag"

	"resourceshop/internal/app/dsn"
	"resourceshop/internal/app/repository"
	"resourceshop/internal/app/seed"
	"resourceshop/internal/app/settings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	path := flag.String("file", "seed.yaml", "seed file")
	flag.Parse()

	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("DSN string is empty. Set DB_DSN or DB_HOST")
	}

	file, err := seed.LoadFile(*path)
	if err != nil {
		logrus.Fatalf("failed to read %s: %v", *path, err)
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	seeder := seed.NewSeeder(repo, settings.NewStore(repo, nil, 0))
	if _, err := seeder.Apply(context.Background(), file); err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}
}
