// Command seed bulk-loads products from a CSV file into the document store.
// It shares the server's configuration and connect-once lifecycle.
//
//	go run ./cmd/seed -file cmd/seed/products.csv
package main

import (
	"context"
	"flag"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/joho/godotenv"

	"github.com/shopeasy/product-store/internal/core/domain"
	"github.com/shopeasy/product-store/internal/infrastructure/config"
	mongodb "github.com/shopeasy/product-store/internal/infrastructure/db/mongo"
	"github.com/shopeasy/product-store/pkg/logger"
)

type seedRow struct {
	Name        string  `csv:"name"`
	Description string  `csv:"description"`
	Price       float64 `csv:"price"`
	Image       string  `csv:"image"`
	Category    string  `csv:"category"`
}

func main() {
	file := flag.String("file", "cmd/seed/products.csv", "path to the products CSV file")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("open seed file failed")
	}
	defer f.Close()

	var rows []seedRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := mongodb.NewProductRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("product indexes failed")
	}

	seeded := 0
	for _, row := range rows {
		if row.Name == "" || row.Price <= 0 {
			log.Warn().Str("name", row.Name).Msg("skipping invalid row")
			continue
		}

		category := row.Category
		if category == "" {
			category = domain.DefaultCategory
		}

		created, err := repo.Insert(ctx, &domain.Product{
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Image:       row.Image,
			Category:    category,
		})
		if err != nil {
			log.Fatal().Err(err).Str("name", row.Name).Msg("insert failed")
		}

		log.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("seeded")
		seeded++
	}

	log.Info().Int("count", seeded).Msg("seeding complete")
}
