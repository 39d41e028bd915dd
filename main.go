package main

import (
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/joescafe/storefront/config"
	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/router"
	"github.com/joescafe/storefront/utils"
)

func main() {
	// .env is optional; containers pass real env vars.
	_ = godotenv.Load()

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}
	if err := seedDefaults(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed defaults: %v", err)
	}

	r := router.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.InfoLogger.Printf("Storefront listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatalf("Server stopped: %v", err)
	}
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.MenuCategory{},
		&models.Menu{},
		&models.Variation{},
		&models.AddOn{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemAddOn{},
		&models.PaymentMethod{},
		&models.SiteSetting{},
		&models.User{},
	)
}

// seedDefaults inserts the rows a fresh install needs: checkout payment
// options, storefront branding and the first admin account. Existing rows are
// left alone.
func seedDefaults(db *gorm.DB) error {
	paymentMethods := []models.PaymentMethod{
		{Code: "gcash", Label: "GCash", SortOrder: 1},
		{Code: "maya", Label: "Maya", SortOrder: 2},
		{Code: "cash", Label: "Cash on pickup / delivery", SortOrder: 3},
	}
	for _, pm := range paymentMethods {
		pm.Active = true
		if err := db.Where(models.PaymentMethod{Code: pm.Code}).FirstOrCreate(&pm).Error; err != nil {
			return err
		}
	}

	settings := []models.SiteSetting{
		{Key: "site_name", Value: "Joe's Cafe & Resto"},
		{Key: "tagline", Value: "Good food, fast."},
		{Key: "currency", Value: "PHP"},
	}
	for _, s := range settings {
		if err := db.Where(models.SiteSetting{Key: s.Key}).FirstOrCreate(&s).Error; err != nil {
			return err
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    adminEmail,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded admin account %s", adminEmail)
	return nil
}
