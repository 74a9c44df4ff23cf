package migrations

import (
	"log"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/repository"
	"pest_marketplace/internal/services"

	"gorm.io/gorm"
)

// RunMigrations creates the schema and seeds default accounts and listings.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
	)
	if err != nil {
		return err
	}

	if err := createDefaultData(db); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// createDefaultData creates the default admin and a demo company with
// sample listings.
func createDefaultData(db *gorm.DB) error {
	log.Println("Creating default data...")

	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo)
	listingRepo := repository.NewListingRepository(db)

	existing, err := userService.GetUserByEmail("admin@pestmarket.local")
	if err == nil && existing != nil {
		log.Println("Admin user already exists")
		return nil
	}

	log.Println("Creating admin user...")
	admin := &models.User{
		Name:     "Administrator",
		Email:    "admin@pestmarket.local",
		Role:     string(models.RoleAdmin),
		IsActive: true,
	}
	if err := userService.CreateUser(admin, "admin123"); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Println("Admin user created successfully")
		log.Println("Email: admin@pestmarket.local")
		log.Println("Password: admin123")
	}

	log.Println("Creating demo company and listings...")
	company := &models.User{
		Name:     "GreenShield Pest Control",
		Email:    "contact@greenshield.local",
		Phone:    "0800123456",
		Address:  "12 Field Road",
		Role:     string(models.RoleCompany),
		IsActive: true,
	}
	if err := userService.CreateUser(company, "company123"); err != nil {
		log.Printf("Warning: Failed to create demo company: %v", err)
		return nil
	}

	price := 150.0
	spray := &models.Listing{
		CompanyID:   company.ID,
		Title:       "Crop Spraying Service",
		Description: "On-site spraying against common field pests.",
		Price:       &price,
		ListingType: string(models.ListingService),
		PestTags:    []string{"aphid", "armyworm", "locust"},
		IsActive:    true,
	}
	listingRepo.Create(spray)

	unit := 25.5
	trap := &models.Listing{
		CompanyID:   company.ID,
		Title:       "Pheromone Trap Pack",
		Description: "Pack of 10 pheromone traps for moth control.",
		Price:       &unit,
		ListingType: string(models.ListingProduct),
		PestTags:    []string{"moth", "fruit fly"},
		IsActive:    true,
	}
	listingRepo.Create(trap)

	log.Println("Default data created successfully!")
	return nil
}
