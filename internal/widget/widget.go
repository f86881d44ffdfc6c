package widget

import (
	"context"
	"time"
)

// Snapshot: сводка, которую показывают вне бота (виджет, дашборд).
type Snapshot struct {
	TelegramID int64     `json:"telegram_id"`
	Date       string    `json:"date"`
	Completed  int       `json:"completed"`
	Total      int       `json:"total"`
	Streak     int       `json:"streak"`
	NextDose   *NextDose `json:"next_dose,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type NextDose struct {
	Time        string   `json:"time"`
	Context     string   `json:"context"`
	Supplements []string `json:"supplements"`
}

// Nop: приёмник для конфигурации без WIDGET_DIR.
type Nop struct{}

func (Nop) Write(context.Context, Snapshot) error { return nil }
