// Seeding tool that fills an empty database with sample users and
// transactions, and optionally writes a matching country lookup CSV.
//
//	go run ./cmd/seed -users 113 -transactions 10013 -countries ./data/user_countries.csv
//
// Reads DATA_BACKEND, DATABASE_URL and SQLITE_DB_PATH via txreport/pkg/config.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"txreport/internal/repository/sqlstore"
	"txreport/pkg/config"
	"txreport/pkg/logger"
)

func main() {
	var (
		numUsers        = flag.Int("users", defaultUsers, "number of users to create")
		numTransactions = flag.Int("transactions", defaultTransactions, "number of transactions to create")
		countriesPath   = flag.String("countries", "", "write a user_id;country lookup CSV to this path")
		seed            = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	log := logger.New("seed")

	cfg := config.Load()
	if err := cfg.ValidateCore(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	if err := sqlstore.Migrate(cfg.Database); err != nil {
		log.Fatal("Failed to run migrations", map[string]interface{}{"error": err.Error()})
	}

	ctx := context.Background()
	db, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	defer db.Close()

	userRepo := sqlstore.NewUserRepository(db)
	txRepo := sqlstore.NewTransactionRepository(db)

	existing, err := userRepo.Count(ctx)
	if err != nil {
		log.Fatal("Failed to count users", map[string]interface{}{"error": err.Error()})
	}
	if existing > 0 {
		log.Info("Database already seeded, skipping", map[string]interface{}{"users": existing})
		return
	}

	gen := newGenerator(rand.New(rand.NewSource(*seed)), time.Now().UTC())

	users := gen.Users(*numUsers)
	if err := userRepo.CreateBatch(ctx, users); err != nil {
		log.Fatal("Failed to create users", map[string]interface{}{"error": err.Error()})
	}
	log.Info("Users created", map[string]interface{}{"count": len(users)})

	txs := gen.Transactions(users, *numTransactions)
	if err := txRepo.CreateBatch(ctx, txs); err != nil {
		log.Fatal("Failed to create transactions", map[string]interface{}{"error": err.Error()})
	}
	log.Info("Transactions created", map[string]interface{}{"count": len(txs)})

	if *countriesPath != "" {
		f, err := os.Create(*countriesPath)
		if err != nil {
			log.Fatal("Failed to create country lookup", map[string]interface{}{"error": err.Error()})
		}
		defer f.Close()

		assigned, err := gen.WriteCountries(f, users)
		if err != nil {
			log.Fatal("Failed to write country lookup", map[string]interface{}{"error": err.Error()})
		}
		log.Info("Country lookup written", map[string]interface{}{
			"path":     *countriesPath,
			"assigned": assigned,
			"users":    len(users),
		})
	}
}
