package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"mockreview/internal/auth"
	"mockreview/internal/config"
	"mockreview/internal/events"
	"mockreview/internal/repository/postgres"
	postgresReview "mockreview/internal/repository/postgres/review"
	"mockreview/internal/seed"
	"mockreview/internal/service/review"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Delete all rows (keep schema)")
	fixturePath := flag.String("fixture", "", "YAML fixture to load instead of the built-in demo data")
	hashPassword := flag.String("hash-password", "", "Print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword, bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: --drop-tables and --clear-data are not allowed in production")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	switch {
	case *clearData:
		log.Printf("Clearing data (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables, postgres.SchemaOptions{UniqueVotes: cfg.EnforceUniqueVotes}); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete")
		return
	}

	if *clearData {
		if err := postgres.ClearData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	clients := postgresReview.NewClientRepository(repoConfig)
	projects := postgresReview.NewProjectRepository(repoConfig)
	screens := postgresReview.NewScreenRepository(repoConfig)
	comments := postgresReview.NewCommentRepository(repoConfig)
	votes := postgresReview.NewVoteRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	publisher := events.NewFanout(nil, logger)

	// Seeding never touches images, so no blob store is wired
	svc := seed.Services{
		Catalog:    review.NewCatalogService(clients, projects, screens, votes, nil, logger),
		Screens:    review.NewScreenService(projects, screens, nil, txManager, logger),
		Annotation: review.NewAnnotationService(screens, comments, txManager, publisher, logger),
		Voting:     review.NewVotingService(votes, publisher, logger),
	}

	res, err := seed.Apply(ctx, fixture, svc, logger)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	for _, c := range res.Clients {
		log.Printf("Client %-20s portal token %s", c.Name, c.Token)
	}
	for _, p := range res.Projects {
		log.Printf("Project %-19s review token %s", p.Name, p.Token)
	}
	log.Printf("Seeding complete: %d screens, %d comments, %d votes", res.Screens, res.Comments, res.Votes)
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}
