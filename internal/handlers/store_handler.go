package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/grovelog/backend/internal/dto"
	"github.com/grovelog/backend/internal/identity"
	"github.com/grovelog/backend/internal/services"
)

type StoreHandler struct {
	rewardService  *services.RewardService
	journalService *services.JournalService
}

func NewStoreHandler(rewardService *services.RewardService, journalService *services.JournalService) *StoreHandler {
	return &StoreHandler{rewardService: rewardService, journalService: journalService}
}

// Purchase handles POST /journal/store/purchase - debits points and credits
// inventory atomically. A rejected purchase has no side effects.
func (h *StoreHandler) Purchase(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "validation_error", "Invalid request body")
	}

	if _, err := h.rewardService.Purchase(userID, req.ItemID); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownItem):
			return badRequest(c, "unknown_item", "Unknown store item")
		case errors.Is(err, services.ErrInsufficientPoints):
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Error: true, Code: "insufficient_points", Message: "Not enough points",
			})
		}
		slog.Error("purchase failed", "user_id", userID.String(), "action", "purchase", "error", err.Error())
		return serverError(c, "Failed to complete purchase")
	}

	view, err := h.journalService.Progress(userID)
	if err != nil {
		slog.Error("progress read after purchase failed", "user_id", userID.String(), "action", "purchase", "error", err.Error())
		return serverError(c, "Failed to fetch progress")
	}

	return c.JSON(progressResponse(view))
}
