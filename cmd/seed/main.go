package main

import (
	"log"
	"os"

	"wolfpack-be/internal/model"
	"wolfpack-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🐺 Seeding Wolfpack data...")

	locations := []model.Location{
		{
			Name:         "Side Hustle Bar Salem",
			Address:      "145 Liberty St NE Suite #101, Salem, OR 97301",
			Latitude:     44.94049607,
			Longitude:    -123.04139512,
			RadiusMeters: 100,
			IsActive:     true,
		},
		{
			Name:         "Side Hustle Bar Portland",
			Address:      "327 SW Morrison St, Portland, OR 97204",
			Latitude:     45.5152,
			Longitude:    -122.6784,
			RadiusMeters: 100,
			IsActive:     true,
		},
	}

	for _, loc := range locations {
		var existing model.Location
		if err := db.Where("name = ?", loc.Name).First(&existing).Error; err == nil {
			color.Yellow("Location '%s' already exists, skipping...", loc.Name)
			continue
		}

		if err := db.Create(&loc).Error; err != nil {
			color.Red("Failed to seed location '%s': %v", loc.Name, err)
			continue
		}
		color.Green("Seeded location: %s", loc.Name)
	}

	SeedNotificationTypes(db)

	color.Cyan("Done.")
}
