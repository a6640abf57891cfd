package dto

import "time"

type SubmitJournalRequest struct {
	Mood             string `json:"mood"`
	Content          string `json:"content"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
}

type PurchaseRequest struct {
	ItemID string `json:"item_id"`
}

type JournalEntryResponse struct {
	ID               string    `json:"id"`
	EntryDate        string    `json:"entry_date"`
	Mood             string    `json:"mood"`
	Content          string    `json:"content"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
	Total   int64                  `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// ProgressResponse is the full user aggregate. GrowthStage and StageProgress
// are derived from CurrentStreak on every read, never stored.
type ProgressResponse struct {
	UserID          string   `json:"user_id"`
	CurrentStreak   int      `json:"current_streak"`
	LongestStreak   int      `json:"longest_streak"`
	TotalJournals   int      `json:"total_journals"`
	Points          int      `json:"points"`
	Freezers        int      `json:"freezers"`
	FreezersUsed    int      `json:"freezers_used"`
	Badges          []string `json:"badges"`
	GrowthStage     string   `json:"growth_stage"`
	StageProgress   float64  `json:"stage_progress"`
	NextStage       string   `json:"next_stage,omitempty"`
	DaysToNextStage int      `json:"days_to_next_stage"`
	JournaledToday  bool     `json:"journaled_today"`
	LastJournalDate *string  `json:"last_journal_date"`
}

type MoodCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type AnalyticsResponse struct {
	MoodData         []MoodCount `json:"mood_data"`
	TotalJournals    int64       `json:"total_journals"`
	TotalTimeSeconds int64       `json:"total_time_seconds"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
