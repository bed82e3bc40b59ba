package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/example/catalog-browser/internal/command"
	"github.com/example/catalog-browser/internal/config"
	"github.com/example/catalog-browser/internal/fixture"
	"github.com/example/catalog-browser/internal/infrastructure/kafka"
	"github.com/example/catalog-browser/internal/infrastructure/store"
	"github.com/example/catalog-browser/internal/projection"
	"github.com/example/catalog-browser/internal/query"
)

// App holds the wired infrastructure shared by the binaries
type App struct {
	EventStore store.EventStoreInterface
	Snapshots  store.SnapshotStore
	Source     store.ProductSource
	Sessions   *store.SessionStore
	Projector  *projection.Projector
	Commands   *command.Handler
	Queries    *query.Handler

	// Products is set when DATABASE_URL is configured
	Products *store.PostgresProductStore

	db       *sql.DB
	redis    *redis.Client
	producer *kafka.Producer
}

// Options tune what Build wires
type Options struct {
	// Publish enables the Kafka producer when brokers are configured
	Publish bool
}

// Build connects the configured backends. Unset backends fall back to
// in-memory implementations.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{Sessions: store.NewSessionStore()}

	var publisher store.Publisher
	if opts.Publish && len(cfg.KafkaBrokers) > 0 {
		a.producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = a.producer
		log.Printf("[App] Publishing events to Kafka %v (topic %s)", cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	if cfg.DatabaseURL != "" {
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.db = db

		eventStore := store.NewPostgresEventStore(db, publisher)
		if err := eventStore.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create events table: %w", err)
		}
		a.EventStore = eventStore

		a.Products = store.NewPostgresProductStore(db)
		if err := a.Products.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create products table: %w", err)
		}
		log.Println("[App] Event log: PostgreSQL (catalog_events)")
	} else {
		a.EventStore = store.NewEventStore(publisher)
		log.Println("[App] Event log: in-memory")
	}

	if cfg.RedisURL != "" {
		client, err := store.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		a.Snapshots = store.NewRedisSnapshotStore(client, cfg.SnapshotTTL)
		log.Println("[App] Snapshots: Redis")
	} else {
		a.Snapshots = store.NewMemorySnapshotStore()
		log.Println("[App] Snapshots: in-memory")
	}

	switch cfg.ProductSource {
	case "postgres":
		a.Source = a.Products
	default:
		a.Source = fixture.NewSource()
	}
	log.Printf("[App] Product source: %s", cfg.ProductSource)

	a.Projector = projection.NewProjector(a.Sessions, a.EventStore, a.Snapshots)
	a.Commands = command.NewHandler(a.EventStore, a.Projector, a.Sessions, a.Source)
	a.Queries = query.NewHandler(a.Sessions)
	return a, nil
}

// Close releases every connection Build opened
func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			log.Printf("[App] Failed to close Kafka producer: %v", err)
		}
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
