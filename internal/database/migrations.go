package database

import (
	"github.com/talentverse/talentverse-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return err
	}

	// Keep enum-like columns honest at the database level
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('member', 'admin'))`)
	}

	if db.Migrator().HasTable(&models.Proposal{}) {
		db.Exec(`ALTER TABLE proposals DROP CONSTRAINT IF EXISTS proposals_status_check`)
		db.Exec(`ALTER TABLE proposals ADD CONSTRAINT proposals_status_check CHECK (status IN ('pending', 'accepted', 'rejected', 'completed', 'cancelled'))`)
	}

	if db.Migrator().HasTable(&models.Review{}) {
		db.Exec(`ALTER TABLE reviews DROP CONSTRAINT IF EXISTS reviews_rating_check`)
		db.Exec(`ALTER TABLE reviews ADD CONSTRAINT reviews_rating_check CHECK (rating BETWEEN 1 AND 5)`)
	}

	return seedSkillCatalog(db)
}

// seedSkillCatalog inserts a baseline set of catalog skills on first boot.
func seedSkillCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Skill{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []models.Skill{
		{Name: "Guitar", Category: "Music", IsActive: true},
		{Name: "Piano", Category: "Music", IsActive: true},
		{Name: "Spanish", Category: "Languages", IsActive: true},
		{Name: "French", Category: "Languages", IsActive: true},
		{Name: "Web Development", Category: "Technology", IsActive: true},
		{Name: "Photography", Category: "Creative", IsActive: true},
		{Name: "Cooking", Category: "Lifestyle", IsActive: true},
		{Name: "Yoga", Category: "Fitness", IsActive: true},
	}

	return db.Create(&seed).Error
}
