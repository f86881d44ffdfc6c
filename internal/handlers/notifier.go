package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

const snoozeDelay = 30 * time.Minute

// Callback-хендлер для кнопок под напоминанием: принял, пропустить, напомнить позже
func HandleReminderCallback(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		slotID, err := uuid.Parse(c.Data())
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка ID"})
		}
		ctx := context.Background()
		telegramID := c.Sender().ID

		switch c.Callback().Unique {
		case utils.BtnSlotTaken:
			if _, err := svc.MarkSlotTaken(ctx, telegramID, slotID); err != nil {
				return respondError(c, log, err)
			}
			_ = c.Edit("✅ Приём отмечен!", &tele.ReplyMarkup{})
			return c.Respond(&tele.CallbackResponse{Text: "Отлично!"})
		case utils.BtnSlotSkip:
			if _, err := svc.MarkSlotSkipped(ctx, telegramID, slotID); err != nil {
				return respondError(c, log, err)
			}
			_ = c.Edit("⏭ Приём пропущен", &tele.ReplyMarkup{})
			return c.Respond()
		case utils.BtnSlotLater:
			at, err := svc.RemindLater(ctx, telegramID, slotID, snoozeDelay)
			if err != nil {
				return respondError(c, log, err)
			}
			_ = c.Edit("⏰ Напомню в "+at.In(svc.Location()).Format(models.ClockLayout), &tele.ReplyMarkup{})
			return c.Respond()
		default:
			return c.Respond()
		}
	}
}

// /notify on|off
func NotifyHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		var enabled bool
		switch strings.ToLower(strings.TrimSpace(c.Message().Payload)) {
		case "on", "вкл":
			enabled = true
		case "off", "выкл":
			enabled = false
		default:
			return c.Send("Использование: /notify on или /notify off")
		}
		if err := svc.SetNotifications(context.Background(), c.Sender().ID, enabled); err != nil {
			return replyError(c, log, err)
		}
		if enabled {
			return c.Send("🔔 Напоминания включены")
		}
		return c.Send("🔕 Напоминания отключены")
	}
}
