package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	adminEmail    = "admin@storefront.local"
	adminPassword = "admin123"
)

type seedProduct struct {
	Name        string
	Title       string
	Category    string
	Description string
	Price       string
	Discount    string
	SKU         string
	Quantity    int
	Featured    bool
	Images      []string
	Info        map[string]string
}

var seedCategories = []model.ProductCategory{
	{Title: "Electronics", Image: "/media/categories/electronics.jpg", Active: true},
	{Title: "Clothing", Image: "/media/categories/clothing.jpg", Active: true},
	{Title: "Home & Kitchen", Image: "/media/categories/home-kitchen.jpg", Active: true},
}

var seedProducts = []seedProduct{
	{
		Name:        "Wireless Headphones",
		Title:       "Noise Cancelling Wireless Headphones",
		Category:    "electronics",
		Description: "Over-ear wireless headphones with active noise cancellation and 30 hours of battery life.",
		Price:       "199.99",
		Discount:    "10",
		SKU:         "ELEC-HP-001",
		Quantity:    25,
		Featured:    true,
		Images:      []string{"/media/products/headphones-1.jpg", "/media/products/headphones-2.jpg"},
		Info: map[string]string{
			"Battery Life": "30 hours",
			"Connectivity": "Bluetooth 5.3",
			"Weight":       "250g",
		},
	},
	{
		Name:        "Smart Watch",
		Title:       "Fitness Tracking Smart Watch",
		Category:    "electronics",
		Description: "Water-resistant smart watch with heart-rate monitoring and GPS.",
		Price:       "149.50",
		Discount:    "0",
		SKU:         "ELEC-SW-002",
		Quantity:    40,
		Featured:    true,
		Images:      []string{"/media/products/smartwatch-1.jpg"},
		Info: map[string]string{
			"Display":          "1.4\" AMOLED",
			"Water Resistance": "5 ATM",
		},
	},
	{
		Name:        "Cotton T-Shirt",
		Title:       "Classic Cotton T-Shirt",
		Category:    "clothing",
		Description: "Plain crew-neck t-shirt in 100% combed cotton.",
		Price:       "19.99",
		Discount:    "0",
		SKU:         "CLTH-TS-001",
		Quantity:    120,
		Images:      []string{"/media/products/tshirt-1.jpg"},
		Info: map[string]string{
			"Material": "100% Cotton",
			"Fit":      "Regular",
		},
	},
	{
		Name:        "Denim Jacket",
		Title:       "Vintage Wash Denim Jacket",
		Category:    "clothing",
		Description: "Mid-weight denim jacket with a faded vintage wash.",
		Price:       "89.00",
		Discount:    "15",
		SKU:         "CLTH-DJ-002",
		Quantity:    18,
		Featured:    true,
		Images:      []string{"/media/products/denim-1.jpg", "/media/products/denim-2.jpg"},
	},
	{
		Name:        "French Press",
		Title:       "8-Cup Glass French Press",
		Category:    "home-kitchen",
		Description: "Borosilicate glass french press with a stainless steel plunger.",
		Price:       "34.95",
		Discount:    "0",
		SKU:         "HOME-FP-001",
		Quantity:    55,
		Images:      []string{"/media/products/frenchpress-1.jpg"},
		Info: map[string]string{
			"Capacity": "1 litre",
			"Material": "Borosilicate glass",
		},
	},
	{
		Name:        "Chef Knife",
		Title:       "8-Inch Stainless Chef Knife",
		Category:    "home-kitchen",
		Description: "Forged high-carbon stainless steel chef knife with a full tang.",
		Price:       "59.99",
		Discount:    "5",
		SKU:         "HOME-CK-002",
		Quantity:    30,
		Images:      []string{"/media/products/knife-1.jpg"},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.ProductCategory{},
		&model.Product{},
		&model.ProductMedia{},
		&model.AdditionalInformation{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	categories, err := seedCategoryRows(ctx, categoryRepo)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	log.Printf("Seeded %d categories", len(categories))

	created, skipped, err := seedProductRows(ctx, productRepo, categories)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}
	log.Printf("Seeded %d products (%d already present)", created, skipped)

	if err := seedAdminUser(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// Drop cached catalog reads so a running server picks up the new rows.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	_ = cacheClient.Delete(ctx, "categories")
	_ = cacheClient.Delete(ctx, "products:latest")
	for _, item := range seedProducts {
		_ = cacheClient.Delete(ctx, "product:"+model.Slugify(item.Name))
	}

	log.Println("Seed completed successfully!")
}

// seedCategoryRows creates missing categories and returns all of them keyed
// by slug.
func seedCategoryRows(ctx context.Context, repo repository.CategoryRepository) (map[string]*model.ProductCategory, error) {
	out := make(map[string]*model.ProductCategory, len(seedCategories))
	for i := range seedCategories {
		category := seedCategories[i]
		slug := model.Slugify(category.Title)

		existing, err := repo.FindBySlug(ctx, slug)
		if err == nil {
			out[slug] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("error checking category %q: %w", category.Title, err)
		}

		if err := repo.Create(ctx, &category); err != nil {
			return nil, fmt.Errorf("error creating category %q: %w", category.Title, err)
		}
		out[category.Slug] = &category
	}
	return out, nil
}

// seedProductRows creates products that are not present yet, matched by SKU.
func seedProductRows(ctx context.Context, repo repository.ProductRepository, categories map[string]*model.ProductCategory) (created int, skipped int, err error) {
	for _, item := range seedProducts {
		if _, err := repo.FindBySKU(ctx, item.SKU); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("error checking product %s: %w", item.SKU, err)
		}

		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return created, skipped, fmt.Errorf("invalid price for %s: %w", item.SKU, err)
		}
		discount, err := decimal.NewFromString(item.Discount)
		if err != nil {
			return created, skipped, fmt.Errorf("invalid discount for %s: %w", item.SKU, err)
		}

		product := model.Product{
			Name:        item.Name,
			Title:       item.Title,
			Description: item.Description,
			Price:       price,
			Discount:    discount,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			Active:      true,
			Featured:    item.Featured,
		}
		if category, ok := categories[item.Category]; ok {
			product.CategoryID = &category.ID
		}
		for i, image := range item.Images {
			product.Images = append(product.Images, model.ProductMedia{
				Image:   image,
				Primary: i == 0,
				Order:   i,
			})
		}
		for key, value := range item.Info {
			product.AdditionalInfo = append(product.AdditionalInfo, model.AdditionalInformation{
				Key:   key,
				Value: value,
			})
		}

		if err := repo.Create(ctx, &product); err != nil {
			return created, skipped, fmt.Errorf("error creating product %s: %w", item.SKU, err)
		}
		created++
	}
	return created, skipped, nil
}

// seedAdminUser creates the default admin account if it does not exist.
func seedAdminUser(ctx context.Context, repo repository.UserRepository) error {
	if _, err := repo.FindByEmail(ctx, adminEmail); err == nil {
		log.Printf("Admin user %s already exists", adminEmail)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	admin := model.User{
		Email:        adminEmail,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         model.RoleAdmin,
		Active:       true,
		PasswordHash: string(hash),
	}
	if err := repo.Create(ctx, &admin); err != nil {
		return fmt.Errorf("error creating admin user: %w", err)
	}
	log.Printf("Admin user %s created (change the default password)", adminEmail)
	return nil
}
