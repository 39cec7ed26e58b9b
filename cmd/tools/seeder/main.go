package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	seedUsers(ctx, conn)
	seedCatalog(ctx, conn)

	log.Println("Seeding completed successfully!")
}

func seedUsers(ctx context.Context, conn *pgx.Conn) {
	users := []struct {
		Name       string
		Email      string
		Role       string
		TotalSpent int64
		Tier       string
	}{
		{"Admin", "admin@hanbutik.com", "admin", 0, "STANDARD"},
		{"Ayse Yilmaz", "ayse@example.com", "customer", 0, "STANDARD"},
		{"Mehmet Demir", "mehmet@example.com", "customer", 250_000, "BRONZE"},
		{"Zeynep Kaya", "zeynep@example.com", "customer", 700_000, "SILVER"},
		{"Emre Sahin", "emre@example.com", "customer", 1_500_000, "GOLD"},
	}

	log.Println("Seeding users...")
	for _, u := range users {
		_, err := conn.Exec(ctx, `
			INSERT INTO users (name, email, role, total_spent, tier)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET total_spent = EXCLUDED.total_spent, tier = EXCLUDED.tier;
		`, u.Name, u.Email, u.Role, u.TotalSpent, u.Tier)
		if err != nil {
			log.Printf("Failed to seed user %s: %v", u.Email, err)
		}
	}
}

func seedCatalog(ctx context.Context, conn *pgx.Conn) {
	categories := []struct {
		Name        string
		Description string
	}{
		{"Dresses", "Seasonal dresses"},
		{"Knitwear", "Sweaters and cardigans"},
		{"Accessories", "Bags, scarves and jewellery"},
		{"Shoes", "Boots, heels and flats"},
	}

	log.Println("Seeding categories...")
	catIDs := make(map[string]string)
	for _, c := range categories {
		var id string
		err := conn.QueryRow(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
			RETURNING id;
		`, c.Name, c.Description).Scan(&id)
		if err != nil {
			log.Printf("Failed to upsert category %s: %v", c.Name, err)
			continue
		}
		catIDs[c.Name] = id
	}

	products := []struct {
		Category  string
		Title     string
		Slug      string
		Price     int64
		Stock     int32
		Threshold int32
	}{
		{"Dresses", "Linen Midi Dress", "linen-midi-dress", 189_900, 40, 5},
		{"Dresses", "Silk Evening Dress", "silk-evening-dress", 459_900, 12, 3},
		{"Knitwear", "Merino Crewneck", "merino-crewneck", 129_900, 60, 10},
		{"Knitwear", "Cashmere Cardigan", "cashmere-cardigan", 349_900, 15, 5},
		{"Accessories", "Leather Tote Bag", "leather-tote-bag", 279_900, 25, 5},
		{"Accessories", "Wool Scarf", "wool-scarf", 59_900, 80, 15},
		{"Shoes", "Suede Ankle Boots", "suede-ankle-boots", 319_900, 20, 5},
		{"Shoes", "Classic Ballet Flats", "classic-ballet-flats", 149_900, 35, 8},
	}

	log.Println("Seeding products...")
	for _, p := range products {
		_, err := conn.Exec(ctx, `
			INSERT INTO products (category_id, title, slug, price, stock, low_stock_threshold)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (slug) DO UPDATE SET price = EXCLUDED.price, stock = EXCLUDED.stock;
		`, catIDs[p.Category], p.Title, p.Slug, p.Price, p.Stock, p.Threshold)
		if err != nil {
			log.Printf("Failed to seed product %s: %v", p.Slug, err)
		}
	}
}
