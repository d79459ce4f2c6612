package database

import (
	"log"

	"gorm.io/gorm"
)

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := migrateFormatCasing(db); err != nil {
		return err
	}
	if err := migrateSharedFlag(db); err != nil {
		return err
	}
	return nil
}

// migrateFormatCasing lowercases legacy format values ("Standard",
// "COMMANDER") so they match the rule table keys. Safe to run multiple
// times since the update is idempotent.
func migrateFormatCasing(db *gorm.DB) error {
	result := db.Exec(`UPDATE decks SET format = LOWER(format) WHERE format != LOWER(format)`)
	if result.Error != nil {
		log.Printf("Warning: failed to normalize deck formats: %v", result.Error)
		return nil
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized format casing on %d decks", result.RowsAffected)
	}
	return nil
}

// migrateSharedFlag migrates the legacy is_shared column to the new
// public column, only touching rows where public was never set.
func migrateSharedFlag(db *gorm.DB) error {
	if !db.Migrator().HasColumn("decks", "is_shared") {
		return nil
	}

	log.Println("Migrating decks: is_shared -> public")

	result := db.Exec(`
		UPDATE decks
		SET public = is_shared
		WHERE public IS NULL OR public = 0
	`)
	if result.Error != nil {
		log.Printf("Warning: failed to migrate is_shared column: %v", result.Error)
	} else {
		log.Printf("Migrated %d deck rows", result.RowsAffected)
	}

	log.Println("Shared flag migration complete")
	return nil
}
