package inventory

import (
	"errors"
	"strings"

	"opname-backend/internal/database"
	"opname-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductResponse struct {
	ID          uint   `json:"id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	SystemStock int    `json:"system_stock"`
}

type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	SystemStock int    `json:"system_stock"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		SystemStock: p.SystemStock,
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/products/search?q=kopi
// Queries shorter than two characters return an empty result instead of the
// whole catalogue.
func SearchProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		if len(q) < 2 {
			return c.JSON([]ProductResponse{})
		}

		pattern := "%" + q + "%"
		var products []models.Product
		if err := database.DB.
			Where("name LIKE ? OR sku LIKE ?", pattern, pattern).
			Order("name asc").
			Limit(20).
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product search failed")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.SKU = strings.TrimSpace(body.SKU)
		body.Name = strings.TrimSpace(body.Name)

		if body.SKU == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku and name are required")
		}
		if body.SystemStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "system_stock cannot be negative")
		}

		p := models.Product{
			SKU:         body.SKU,
			Name:        body.Name,
			SystemStock: body.SystemStock,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "A product with this SKU already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
	}
}

// DELETE /api/products/:id
// Removing a product also removes its count entries via the foreign key
// cascade.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		if err := database.DB.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
