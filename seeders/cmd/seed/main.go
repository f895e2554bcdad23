package main

import (
	"context"
	"flag"
	"log"

	"github.com/andimendes/zap-desk-engine/pkg/config"
	"github.com/andimendes/zap-desk-engine/pkg/database/postgresql"
	"github.com/andimendes/zap-desk-engine/seeders"
)

func main() {
	tenantID := flag.Int64("tenant", 0, "tenant to seed the default deal funnel for")
	flag.Parse()

	if *tenantID == 0 {
		log.Println("no tenant selected")
		log.Println("")
		log.Println("usage:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("example:")
		log.Println("  go run ./seeders/cmd/seed -tenant 1")
		return
	}

	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	log.Printf("seeding tenant %d...", *tenantID)
	if err := seeders.SeedDefaultDealFunnel(context.Background(), db, *tenantID); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("done")
}
