// One-off maintenance: stamp game_studio_id on library entries and reviews
// created before the studio snapshot columns existed. Rows for games that
// are currently unassigned are left NULL.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/coalhq/coal-server/internal/config"
	"github.com/coalhq/coal-server/internal/models"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := models.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("Connected to database successfully!")
	fmt.Println("")

	var pendingEntries, pendingReviews int64
	db.Model(&models.Ownership{}).Where("game_studio_id IS NULL").Count(&pendingEntries)
	db.Model(&models.Review{}).Where("game_studio_id IS NULL").Count(&pendingReviews)
	fmt.Printf("Library entries missing studio ref: %d\n", pendingEntries)
	fmt.Printf("Reviews missing studio ref:         %d\n", pendingReviews)
	fmt.Println("")

	entries := db.Model(&models.Ownership{}).
		Where("game_studio_id IS NULL").
		Update("game_studio_id", db.Model(&models.Game{}).
			Select("studio_id").
			Where("games.id = user_games.game_id"))
	if entries.Error != nil {
		log.Fatalf("Failed to backfill library entries: %v", entries.Error)
	}
	fmt.Printf("Updated %d library entries\n", entries.RowsAffected)

	reviews := db.Model(&models.Review{}).
		Where("game_studio_id IS NULL").
		Update("game_studio_id", db.Model(&models.Game{}).
			Select("studio_id").
			Where("games.id = reviews.game_id"))
	if reviews.Error != nil {
		log.Fatalf("Failed to backfill reviews: %v", reviews.Error)
	}
	fmt.Printf("Updated %d reviews\n", reviews.RowsAffected)

	// Rows whose game is unassigned come back NULL from the subquery; report
	// them so the numbers above are not misread as failures.
	var stillNull int64
	db.Model(&models.Review{}).
		Joins("JOIN games ON games.id = reviews.game_id").
		Where("reviews.game_studio_id IS NULL AND games.studio_id IS NULL").
		Count(&stillNull)
	if stillNull > 0 {
		fmt.Printf("%d reviews reference unassigned games and stay NULL\n", stillNull)
	}

	fmt.Println("")
	fmt.Println("Backfill complete")
}
