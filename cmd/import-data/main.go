package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nearby-rouen/nearby/internal/config"
	"github.com/nearby-rouen/nearby/internal/importer"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()
	cfg.InitializeLogging()

	// Command line flags
	dbPath := flag.String("db", cfg.DatabasePath, "Path to the SQLite dataset to build")
	astuce := flag.String("astuce", "", "Astuce GTFS zip")
	atoumod := flag.String("atoumod", "", "AtouMod GTFS zip")
	flixbus := flag.String("flixbus", "", "Flixbus GTFS zip")
	cycling := flag.String("cycling", "", "Métropole cycle parking CSV")
	lovelo := flag.String("lovelo", "", "Lovélo GBFS station_information.json")
	flag.Parse()

	ctx := context.Background()

	database, err := importer.Connect(ctx, *dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	log.Info().Str("path", *dbPath).Msg("Connected to database")

	// Ensure schema exists (creates tables if needed)
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema")
	}

	failed := false
	feeds := []importer.Feed{
		{Path: *astuce, Prefix: importer.PrefixAstuce},
		{Path: *atoumod, Prefix: importer.PrefixAtoumod},
		{Path: *flixbus, Prefix: importer.PrefixFlixbus},
	}
	for _, feed := range feeds {
		if feed.Path == "" {
			continue
		}
		if _, err := importer.ImportGTFS(ctx, database, feed, importer.MetropoleArea); err != nil {
			log.Error().Err(err).Str("feed", feed.Path).Msg("GTFS import failed")
			failed = true
		}
	}

	if *atoumod != "" && *astuce != "" {
		if _, err := importer.RemoveDuplicateRoutes(ctx, database); err != nil {
			log.Error().Err(err).Msg("Failed to remove duplicate routes")
			failed = true
		}
	}

	if *cycling != "" {
		if _, err := importer.ImportCycling(ctx, database, *cycling); err != nil {
			log.Error().Err(err).Str("file", *cycling).Msg("Cycle parking import failed")
			failed = true
		}
	}
	if *lovelo != "" {
		if _, err := importer.ImportLovelo(ctx, database, *lovelo); err != nil {
			log.Error().Err(err).Str("file", *lovelo).Msg("Lovélo import failed")
			failed = true
		}
	}

	if err := database.Optimize(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to optimize database")
	}

	if failed {
		database.Close()
		os.Exit(1)
	}
	log.Info().Msg("Import complete!")
}
