package opname

import (
	"errors"
	"strings"
	"time"

	"opname-backend/internal/database"
	"opname-backend/internal/events"
	"opname-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmitEntryRequest struct {
	ProductID uint   `json:"product_id"`
	QtyActual *int   `json:"qty_actual"`
	Notes     string `json:"notes"`
}

type EntryResponse struct {
	ID        uint   `json:"id"`
	SessionID uint   `json:"session_id"`
	ProductID uint   `json:"product_id"`
	QtyActual int    `json:"qty_actual"`
	Notes     string `json:"notes"`
	UpdatedAt string `json:"updated_at"`
}

func toEntryResponse(e models.OpnameEntry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		SessionID: e.SessionID,
		ProductID: e.ProductID,
		QtyActual: e.QtyActual,
		Notes:     e.Notes,
		UpdatedAt: e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// PUT /api/sessions/:id/entries
// Records one product's counted quantity. Resubmitting the same product
// overwrites the earlier count: the write is a single ON CONFLICT upsert
// against the (session_id, product_id) unique index, so two devices
// submitting at once end up with one row, last write wins. The session
// must still be OPEN; the guard runs in the same transaction as the write.
func SubmitEntryHandler(hub *events.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionIDParam(c)
		if err != nil {
			return err
		}

		var body SubmitEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
		}
		if body.QtyActual == nil {
			return fiber.NewError(fiber.StatusBadRequest, "qty_actual is required")
		}
		if *body.QtyActual < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "qty_actual cannot be negative")
		}
		body.Notes = strings.TrimSpace(body.Notes)

		entry := models.OpnameEntry{
			SessionID: uint(id),
			ProductID: body.ProductID,
			QtyActual: *body.QtyActual,
			Notes:     body.Notes,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var s models.OpnameSession
			if err := tx.First(&s, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Session not found")
				}
				return err
			}
			if s.Status != models.SessionStatusOpen {
				return fiber.NewError(fiber.StatusConflict, "Session is not open for counting")
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"qty_actual": entry.QtyActual,
					"notes":      entry.Notes,
					"updated_at": time.Now(),
				}),
			}).Create(&entry).Error; err != nil {
				return err
			}

			// On the conflict path Create does not report the surviving row,
			// so read it back for the response.
			var saved models.OpnameEntry
			if err := tx.
				Where("session_id = ? AND product_id = ?", id, body.ProductID).
				First(&saved).Error; err != nil {
				return err
			}
			entry = saved
			return nil
		})
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return fiberErr
			}
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return fiber.NewError(fiber.StatusBadRequest, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save count entry")
		}

		hub.Publish(events.SessionEvent{SessionID: uint(id), Kind: events.KindEntrySubmitted})

		return c.JSON(toEntryResponse(entry))
	}
}
