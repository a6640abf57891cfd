package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/grovelog/backend/internal/dto"
	"github.com/grovelog/backend/internal/identity"
	"github.com/grovelog/backend/internal/progression"
	"github.com/grovelog/backend/internal/services"
)

type JournalHandler struct {
	journalService *services.JournalService
}

func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// Submit handles POST /journal/entries - appends today's entry and returns
// the updated aggregate.
func (h *JournalHandler) Submit(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SubmitJournalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "validation_error", "Invalid request body")
	}

	view, err := h.journalService.Submit(userID, req.Mood, req.Content, req.TimeTakenSeconds)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyJournaledToday):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Code: "already_journaled_today", Message: "You already journaled today",
			})
		case errors.Is(err, services.ErrInvalidMood),
			errors.Is(err, services.ErrEmptyContent),
			errors.Is(err, services.ErrNegativeTime):
			return badRequest(c, "validation_error", err.Error())
		}
		slog.Error("journal submit failed", "user_id", userID.String(), "action", "submit", "error", err.Error())
		return serverError(c, "Failed to submit journal")
	}

	return c.Status(fiber.StatusCreated).JSON(progressResponse(view))
}

// History handles GET /journal/entries - date-descending entry list.
func (h *JournalHandler) History(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	limit := c.QueryInt("limit", 30)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := h.journalService.History(userID, limit, offset)
	if err != nil {
		slog.Error("journal history failed", "user_id", userID.String(), "action", "history", "error", err.Error())
		return serverError(c, "Failed to fetch history")
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = dto.JournalEntryResponse{
			ID:               e.ID.String(),
			EntryDate:        e.EntryDate.Format("2006-01-02"),
			Mood:             e.Mood,
			Content:          e.Content,
			TimeTakenSeconds: e.TimeTakenSeconds,
			CreatedAt:        e.CreatedAt,
		}
	}

	return c.JSON(dto.HistoryResponse{
		Entries: responses,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

// Delete handles DELETE /journal/entries/:id - removes the entry and returns
// the aggregate after a full streak recomputation.
func (h *JournalHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "validation_error", "Invalid entry ID")
	}

	view, err := h.journalService.Delete(userID, entryID)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Code: "not_found", Message: "Journal entry not found",
			})
		}
		slog.Error("journal delete failed", "user_id", userID.String(), "action", "delete", "error", err.Error())
		return serverError(c, "Failed to delete journal entry")
	}

	return c.JSON(progressResponse(view))
}

// Progress handles GET /journal/progress - the read-only aggregate.
func (h *JournalHandler) Progress(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	view, err := h.journalService.Progress(userID)
	if err != nil {
		slog.Error("progress read failed", "user_id", userID.String(), "action", "progress", "error", err.Error())
		return serverError(c, "Failed to fetch progress")
	}

	return c.JSON(progressResponse(view))
}

// Analytics handles GET /journal/analytics - mood distribution and totals.
func (h *JournalHandler) Analytics(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	breakdown, total, totalTime, err := h.journalService.Analytics(userID)
	if err != nil {
		slog.Error("analytics failed", "user_id", userID.String(), "action", "analytics", "error", err.Error())
		return serverError(c, "Failed to fetch analytics")
	}

	moodData := make([]dto.MoodCount, len(breakdown))
	for i, b := range breakdown {
		moodData[i] = dto.MoodCount{Name: b.Mood, Value: b.Count}
	}

	return c.JSON(dto.AnalyticsResponse{
		MoodData:         moodData,
		TotalJournals:    total,
		TotalTimeSeconds: totalTime,
	})
}

// progressResponse derives the growth stage from the effective streak; the
// stage is never read from storage.
func progressResponse(view *services.ProgressView) dto.ProgressResponse {
	p := view.Progress
	stage := progression.ResolveStage(p.CurrentStreak)

	badges := view.Badges
	if badges == nil {
		badges = []string{}
	}

	var lastDate *string
	if p.LastJournalDate != nil {
		s := p.LastJournalDate.Format("2006-01-02")
		lastDate = &s
	}

	return dto.ProgressResponse{
		UserID:          p.UserID.String(),
		CurrentStreak:   p.CurrentStreak,
		LongestStreak:   p.LongestStreak,
		TotalJournals:   p.TotalJournals,
		Points:          p.Points,
		Freezers:        p.Freezers,
		FreezersUsed:    p.FreezersUsed,
		Badges:          badges,
		GrowthStage:     string(stage.Stage),
		StageProgress:   stage.Progress,
		NextStage:       string(stage.NextStage),
		DaysToNextStage: stage.DaysToNext,
		JournaledToday:  view.JournaledToday,
		LastJournalDate: lastDate,
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Code: code, Message: message,
	})
}

func serverError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
