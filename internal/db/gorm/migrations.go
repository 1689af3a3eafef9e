// Package gorm provides GORM-based database operations for styleai.
package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: profile, weight, and attribute-stat tables
		{
			ID: "001_profile_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&UserProfileRow{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&PreferenceWeightRow{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&AttributeStatRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("user_profiles", "preference_weights", "attribute_stats")
			},
		},

		// Migration 002: outfit metadata and the interaction log
		{
			ID: "002_outfits_interactions",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&OutfitRow{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&InteractionRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("outfits", "interactions")
			},
		},
	})

	return m.Migrate()
}
