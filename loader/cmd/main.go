package main

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"mingle/job"
	"mingle/loader/service"
	"mingle/store"
	"mingle/types"

	"github.com/joho/godotenv"
)

func init() {
	mustLoadEnvVariables()
}

func main() {
	ctx := context.Background()

	var storer store.DBStorer = store.NewMemoryStore()
	if dsn := types.PostgresDSN(); dsn != "" {
		pool, err := store.NewPostgresStore(ctx, dsn)
		if err != nil {
			log.Fatal("error to connect to Postgres database ", err)
		}
		if err := pool.Init(ctx); err != nil {
			log.Fatal("error to create tables ", err)
		}
		storer = pool
	}

	svc, err := service.New(job.NewRunner(storer), types.LoadConfig())
	if err != nil {
		log.Fatal("error to prepare hot folder ", err)
	}

	svc.Run()

	log.Println("Closing job store...")
	if err := storer.Close(); err != nil {
		log.Printf("error closing store: %v\n", err)
	}
}

func mustLoadEnvVariables() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("Error loading .env file: ", err)
	}
}
