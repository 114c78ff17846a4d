package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/willora/willora-backend/internal/config"
	"github.com/willora/willora-backend/internal/database"
	"github.com/willora/willora-backend/internal/store"
	"github.com/willora/willora-backend/internal/store/memstore"
)

const setupTimeout = 30 * time.Second

// openStore connects the configured store driver and prepares its indexes or tables.
// The returned func releases the connection.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		log.Printf("Connecting to MongoDB...")
		log.Printf("MongoDB URI: %s", database.MaskURI(cfg.MongoURI))
		db, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Println("Troubleshooting tips:")
			log.Println("1. Check if your IP is whitelisted in MongoDB Atlas")
			log.Println("2. Verify your connection string format (mongodb+srv:// for Atlas)")
			log.Println("3. Ensure username and password are correct")
			return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		closeFn := func() {
			if err := database.Disconnect(); err != nil {
				log.Printf("⚠️  MongoDB disconnect: %v", err)
			}
		}

		setupCtx, cancel := context.WithTimeout(ctx, setupTimeout)
		defer cancel()
		if err := store.EnsureMongoIndexes(setupCtx, db); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
		} else {
			log.Println("✅ MongoDB indexes ensured")
		}
		return store.NewMongoStore(db), closeFn, nil

	case config.StorePostgres:
		log.Printf("Connecting to PostgreSQL...")
		log.Printf("PostgreSQL URI: %s", database.MaskURI(cfg.PostgresURI))
		db, err := database.ConnectPostgres(cfg.PostgresURI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		closeFn := func() {
			if err := database.DisconnectPostgres(); err != nil {
				log.Printf("⚠️  PostgreSQL disconnect: %v", err)
			}
		}

		setupCtx, cancel := context.WithTimeout(ctx, setupTimeout)
		defer cancel()
		if err := database.InitPostgresTables(setupCtx, db); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("initialize PostgreSQL tables: %w", err)
		}
		return store.NewPostgresStore(db), closeFn, nil

	case config.StoreMemory:
		log.Println("⚠️  WARNING: using the in-memory store. Data is lost on restart.")
		return memstore.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q (want mongo, postgres or memory)", cfg.StoreDriver)
	}
}
