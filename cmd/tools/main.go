package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao/mysql"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/utils"

	"gorm.io/gorm"
)

// Operational helper: schema migration, development seed data and
// super-admin provisioning.
//
//	go run ./cmd/tools -migrate
//	go run ./cmd/tools -seed
//	go run ./cmd/tools -create-admin -email you@example.com -password secret
func main() {
	migrate := flag.Bool("migrate", false, "run schema migration")
	seed := flag.Bool("seed", false, "insert development seed data")
	createAdmin := flag.Bool("create-admin", false, "create a super_admin account")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if !*migrate && !*seed && !*createAdmin {
		flag.Usage()
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		log.Fatalf("failed to connect to mysql: %v", err)
	}

	if *migrate {
		if err := runMigration(db); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		fmt.Println("migration complete")
	}
	if *seed {
		if err := runSeed(db); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Println("seed complete")
	}
	if *createAdmin {
		if *email == "" || *password == "" {
			log.Fatal("-create-admin requires -email and -password")
		}
		if err := runCreateAdmin(db, *email, *password); err != nil {
			log.Fatalf("create-admin failed: %v", err)
		}
		fmt.Println("super admin created:", *email)
	}
}

func runMigration(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserAddress{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Review{},
		&model.Page{},
		&model.BlogPost{},
		&model.SiteSetting{},
		&model.FAQ{},
		&model.Testimonial{},
		&model.SectionContent{},
		&model.NewsletterSubscriber{},
		&model.ContactMessage{},
		&model.Consultation{},
		&model.PressHero{},
		&model.MediaCoverage{},
		&model.PressRelease{},
		&model.Exhibition{},
		&model.SpeakingEngagement{},
		&model.Collaboration{},
		&model.Notification{},
		&model.MediaFile{},
		&model.ProductCollection{},
	)
}

func runCreateAdmin(db *gorm.DB, email, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user := model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Admin",
		Role:         model.RoleSuperAdmin,
		IsVerified:   true,
		IsActive:     true,
	}
	return db.Create(&user).Error
}

// runSeed inserts a small catalogue so the storefront is browsable on a
// fresh database. Re-running it duplicates nothing thanks to the slug
// uniqueness check.
func runSeed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("products already present, skipping seed")
		return nil
	}

	categories := []model.Category{
		{Name: "Adaptive Wear", Slug: "adaptive-wear", DisplayOrder: 1, IsActive: true},
		{Name: "Accessories", Slug: "accessories", DisplayOrder: 2, IsActive: true},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []model.Product{
		{
			Name:          "Magnetic Closure Shirt",
			Slug:          "magnetic-closure-shirt",
			Description:   "Button-front shirt with hidden magnetic closures.",
			Price:         4500,
			Currency:      "KES",
			SKU:           "HS-SHIRT-001",
			StockQuantity: 40,
			CategoryID:    &categories[0].ID,
			Gender:        "unisex",
			IsActive:      true,
			IsFeatured:    true,
		},
		{
			Name:          "Seated-Fit Trousers",
			Slug:          "seated-fit-trousers",
			Description:   "Trousers cut for a seated posture with side zips.",
			Price:         6200,
			Currency:      "KES",
			SKU:           "HS-TRS-001",
			StockQuantity: 25,
			CategoryID:    &categories[0].ID,
			Gender:        "unisex",
			IsActive:      true,
		},
		{
			Name:          "One-Hand Tote",
			Slug:          "one-hand-tote",
			Description:   "Tote bag operable with one hand.",
			Price:         2800,
			Currency:      "KES",
			SKU:           "HS-ACC-001",
			StockQuantity: 60,
			CategoryID:    &categories[1].ID,
			IsActive:      true,
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	settings := []model.SiteSetting{
		{Key: "site_name", Value: "Hisi Studio", SettingType: "text"},
		{Key: "contact_email", Value: "hello@hisistudio.com", SettingType: "text"},
	}
	for i := range settings {
		if err := db.Create(&settings[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
