package main

import (
	"log"
	"time"

	"opname-backend/internal/config"
	"opname-backend/internal/database"
	"opname-backend/internal/models"
)

// Loads demo data: the coffee-shop raw-material catalogue, a completed
// session from last month and an open one with two counts already entered.
// Safe to re-run; existing SKUs are left alone.
func main() {
	cfg := config.Load()
	database.Init(cfg)

	products := []models.Product{
		{SKU: "BB-001", Name: "Biji Kopi Arabica (kg)", SystemStock: 50},
		{SKU: "BB-002", Name: "Biji Kopi Robusta (kg)", SystemStock: 35},
		{SKU: "BB-003", Name: "Susu UHT Full Cream (L)", SystemStock: 120},
		{SKU: "BB-004", Name: "Sirup Vanilla (btl)", SystemStock: 15},
		{SKU: "BB-005", Name: "Sirup Hazelnut (btl)", SystemStock: 12},
		{SKU: "BB-006", Name: "Gula Pasir (kg)", SystemStock: 40},
		{SKU: "BB-007", Name: "Cup 12oz (pcs)", SystemStock: 500},
		{SKU: "BB-008", Name: "Cup 16oz (pcs)", SystemStock: 450},
		{SKU: "BB-009", Name: "Sedotan (pack)", SystemStock: 20},
		{SKU: "BB-010", Name: "Bubuk Coklat Premium (kg)", SystemStock: 25},
		{SKU: "BB-011", Name: "Teh Hitam (box)", SystemStock: 30},
		{SKU: "BB-012", Name: "Teh Hijau (box)", SystemStock: 28},
		{SKU: "BB-013", Name: "Lychee Kaleng (klg)", SystemStock: 15},
		{SKU: "BB-014", Name: "Air Mineral Galon (galon)", SystemStock: 10},
		{SKU: "BB-015", Name: "Es Batu (pack)", SystemStock: 5},
	}

	log.Printf("Seeding %d products...", len(products))
	for i := range products {
		if err := database.DB.
			Where("sku = ?", products[i].SKU).
			FirstOrCreate(&products[i]).Error; err != nil {
			log.Fatalf("Could not seed product %s: %v", products[i].SKU, err)
		}
	}

	log.Println("Creating sessions...")

	lastMonth := time.Now().AddDate(0, -1, 0)
	completedAt := lastMonth.Add(7 * time.Hour)
	completed := models.OpnameSession{
		Title:       "Opname Bulan Lalu",
		Status:      models.SessionStatusCompleted,
		CreatedAt:   lastMonth,
		CompletedAt: &completedAt,
	}
	if err := database.DB.Create(&completed).Error; err != nil {
		log.Fatalf("Could not seed completed session: %v", err)
	}

	active := models.OpnameSession{
		Title:  "Opname Harian",
		Status: models.SessionStatusOpen,
	}
	if err := database.DB.Create(&active).Error; err != nil {
		log.Fatalf("Could not seed open session: %v", err)
	}

	log.Println("Adding demo entries to the open session...")

	var arabica, uht models.Product
	if err := database.DB.First(&arabica, "sku = ?", "BB-001").Error; err != nil {
		log.Fatalf("Seed product lookup failed: %v", err)
	}
	if err := database.DB.First(&uht, "sku = ?", "BB-003").Error; err != nil {
		log.Fatalf("Seed product lookup failed: %v", err)
	}

	entries := []models.OpnameEntry{
		// 2 kg short against the master list
		{SessionID: active.ID, ProductID: arabica.ID, QtyActual: 48, Notes: "Ada yang tumpah sedikit"},
		// exact match
		{SessionID: active.ID, ProductID: uht.ID, QtyActual: 120},
	}
	for _, e := range entries {
		if err := database.DB.Create(&e).Error; err != nil {
			log.Fatalf("Could not seed entry for product %d: %v", e.ProductID, err)
		}
	}

	log.Println("Seeding complete.")
}
