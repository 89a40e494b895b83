package main

import (
	"context"
	"flag"
	"log"
	"os"

	"pawpals/internal/config"
	"pawpals/internal/db"
	"pawpals/internal/migrate"
)

func main() {
	flag.Usage = func() {
		log.Printf("usage: %s [up|down]", os.Args[0])
	}
	flag.Parse()
	direction := "up"
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}

	cfg := config.Load()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	switch direction {
	case "up":
		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
		logger.Println("migrations applied")
	case "down":
		if err := migrate.Rollback(ctx, pool); err != nil {
			logger.Fatalf("rollback migration: %v", err)
		}
		logger.Println("last migration rolled back")
	default:
		flag.Usage()
		os.Exit(2)
	}
}
