package db

import (
	"context"
	"log"

	"mnemosine-api/internal/armario"
	"mnemosine-api/internal/caja"
	"mnemosine-api/internal/cajita"
	"mnemosine-api/internal/nota"
	"mnemosine-api/internal/reminder"
	"mnemosine-api/internal/user"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&user.User{},
		&armario.Armario{},
		&caja.Caja{},
		&cajita.Cajita{},
		&nota.Nota{},
		&reminder.EventReminder{},
		&reminder.InternalReminder{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}

// SeedData seeds the database with initial data (for development only)
func SeedData(users user.Service) {
	testUser := &user.User{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password123",
	}

	userRepo := user.NewRepository(AppDb)
	if _, err := userRepo.FindByEmail(testUser.Email); err == nil {
		log.Printf("Test user already exists: %s", testUser.Email)
		return
	}

	if err := users.Register(context.Background(), testUser); err != nil {
		log.Printf("Error creating test user: %v", err)
		return
	}
	log.Printf("Created test user: %s", testUser.Email)
}
