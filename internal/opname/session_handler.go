package opname

import (
	"errors"
	"strings"

	"opname-backend/internal/config"
	"opname-backend/internal/database"
	"opname-backend/internal/events"
	"opname-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
}

type CreateSessionRequest struct {
	Title string `json:"title"`
}

func toSessionResponse(s models.OpnameSession) SessionResponse {
	res := SessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if s.CompletedAt != nil {
		completed := s.CompletedAt.Format("2006-01-02 15:04:05")
		res.CompletedAt = &completed
	}
	return res
}

func findSession(id int) (*models.OpnameSession, error) {
	var s models.OpnameSession
	if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load session")
	}
	return &s, nil
}

func sessionIDParam(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return id, nil
}

// GET /api/sessions?status=OPEN
func ListSessionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.OpnameSession{})

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", strings.ToUpper(status))
		}

		var sessions []models.OpnameSession
		if err := dbq.Order("created_at desc").Find(&sessions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sessions")
		}

		res := make([]SessionResponse, 0, len(sessions))
		for _, s := range sessions {
			res = append(res, toSessionResponse(s))
		}
		return c.JSON(res)
	}
}

// GET /api/sessions/:id
func GetSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionIDParam(c)
		if err != nil {
			return err
		}
		s, err := findSession(id)
		if err != nil {
			return err
		}
		return c.JSON(toSessionResponse(*s))
	}
}

// POST /api/sessions
func CreateSessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title is required")
		}

		s := models.OpnameSession{
			Title:  body.Title,
			Status: models.SessionStatusOpen,
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create session")
		}

		return c.Status(fiber.StatusCreated).JSON(toSessionResponse(s))
	}
}

// POST /api/sessions/:id/finalize
// Marks the count round as COMPLETED and stamps the completion time. With
// StrictFinalize a second finalize is a conflict; otherwise it just renews
// the timestamp, matching how the paper process treats a re-signed sheet.
func FinalizeSessionHandler(cfg *config.Config, hub *events.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionIDParam(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.OpnameSession{}).Where("id = ?", id)
		if cfg.StrictFinalize {
			dbq = dbq.Where("status <> ?", models.SessionStatusCompleted)
		}

		res := dbq.Updates(map[string]any{
			"status":       models.SessionStatusCompleted,
			"completed_at": database.DB.NowFunc(),
		})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not finalize session")
		}
		if res.RowsAffected == 0 {
			// Either the id is unknown or strict mode hit an already-completed
			// session; look it up to tell the two apart.
			s, err := findSession(id)
			if err != nil {
				return err
			}
			if s.Status == models.SessionStatusCompleted {
				return fiber.NewError(fiber.StatusConflict, "Session is already completed")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not finalize session")
		}

		hub.Publish(events.SessionEvent{SessionID: uint(id), Kind: events.KindSessionUpdated})

		s, err := findSession(id)
		if err != nil {
			return err
		}
		return c.JSON(toSessionResponse(*s))
	}
}

// POST /api/sessions/:id/toggle-lock
// Flips OPEN<->LOCKED in a single conditional UPDATE so the decision is
// made against the stored status, not whatever status the caller last saw.
func ToggleLockHandler(hub *events.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionIDParam(c)
		if err != nil {
			return err
		}

		res := database.DB.Model(&models.OpnameSession{}).
			Where("id = ? AND status IN ?", id, []models.SessionStatus{
				models.SessionStatusOpen, models.SessionStatusLocked,
			}).
			Update("status", gorm.Expr(
				"CASE status WHEN 'OPEN' THEN 'LOCKED' ELSE 'OPEN' END"))
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not toggle session lock")
		}
		if res.RowsAffected == 0 {
			s, err := findSession(id)
			if err != nil {
				return err
			}
			if s.Status == models.SessionStatusCompleted {
				return fiber.NewError(fiber.StatusConflict, "A completed session cannot be locked or unlocked")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not toggle session lock")
		}

		hub.Publish(events.SessionEvent{SessionID: uint(id), Kind: events.KindSessionUpdated})

		s, err := findSession(id)
		if err != nil {
			return err
		}
		return c.JSON(toSessionResponse(*s))
	}
}

// DELETE /api/sessions/:id
// The foreign key cascade removes the session's entries with it.
func DeleteSessionHandler(hub *events.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionIDParam(c)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(&models.OpnameSession{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete session")
		}

		hub.Publish(events.SessionEvent{SessionID: uint(id), Kind: events.KindSessionDeleted})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
