package db

import (
	"document-improver/internal/domain"
	"log"

	"github.com/google/uuid"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&domain.User{},
		&domain.Document{},
		&domain.DocumentContent{},
		&domain.DocumentVersion{},
		&domain.Suggestion{},
		&domain.Template{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}

// SeedData seeds the database with initial data
func SeedData() {
	// Make sure there is a default export template
	var count int64
	if err := AppDb.Model(&domain.Template{}).Where("is_default = ?", true).Count(&count).Error; err != nil {
		log.Printf("Error checking default template: %v", err)
		return
	}
	if count > 0 {
		return
	}

	tpl := &domain.Template{
		ID:          uuid.NewString(),
		Name:        "Plain",
		Description: "Default plain text export template",
		FilePath:    "templates/plain.tmpl",
		IsDefault:   true,
	}
	if err := AppDb.Create(tpl).Error; err != nil {
		log.Printf("Error creating default template: %v", err)
	} else {
		log.Printf("Created default template: %s", tpl.Name)
	}
}
