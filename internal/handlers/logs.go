package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

func itemMark(it service.TodayItem) string {
	switch {
	case it.Taken:
		return "✅"
	case it.Skipped:
		return "⏭"
	default:
		return "⬜"
	}
}

func todayText(view service.TodayView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s\n", utils.FormatDateRu(view.Date))
	for _, ts := range view.Slots {
		fmt.Fprintf(&b, "\n🕒 %s, %s\n", ts.Slot.Time, utils.ContextLabel(ts.Slot.Context))
		for _, it := range ts.Items {
			fmt.Fprintf(&b, "%s %s\n", itemMark(it), it.Supplement.Name)
		}
		if ts.RescheduledFor != nil && !ts.Done() {
			fmt.Fprintf(&b, "⏰ напомню в %s\n", ts.RescheduledFor.Format(models.ClockLayout))
		}
	}
	fmt.Fprintf(&b, "\nВыполнено: %d из %d", view.Summary.Completed, view.Summary.Total)
	if view.Summary.Streak > 0 {
		fmt.Fprintf(&b, "\n🔥 Серия: %d дн.", view.Summary.Streak)
	}
	if view.Next != nil {
		fmt.Fprintf(&b, "\n➡️ Следующий приём: %s", view.Next.Slot.Time)
	}
	return b.String()
}

// Кнопки ручной отметки: по одной строке на каждую добавку
func todayMarkup(view service.TodayView) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, ts := range view.Slots {
		slotID := utils.ShortID(ts.Slot.ID)
		for _, it := range ts.Items {
			supID := utils.ShortID(it.Supplement.ID)
			if it.Taken || it.Skipped {
				btn := markup.Data(fmt.Sprintf("↩️ %s %s", ts.Slot.Time, it.Supplement.Name), utils.BtnSuppUnmark, slotID, supID)
				rows = append(rows, markup.Row(btn))
				continue
			}
			btnTaken := markup.Data(fmt.Sprintf("✅ %s %s", ts.Slot.Time, it.Supplement.Name), utils.BtnSuppTaken, slotID, supID)
			btnSkip := markup.Data("⏭", utils.BtnSuppSkip, slotID, supID)
			rows = append(rows, markup.Row(btnTaken, btnSkip))
		}
	}
	markup.Inline(rows...)
	return markup
}

// TodayHandler: список приёмов на сегодня с кнопками для ручной отметки
func TodayHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		view, err := svc.Today(context.Background(), c.Sender().ID)
		if err != nil {
			return replyError(c, log, err)
		}
		if len(view.Slots) == 0 {
			return c.Send("На сегодня приёмов нет 🎉")
		}
		return c.Send(todayText(view), todayMarkup(view))
	}
}

func parseSlotSupplement(data string) (uuid.UUID, uuid.UUID, bool) {
	parts, ok := utils.SplitData(data, 2)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	slotID, err := utils.ParseShortID(parts[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	supID, err := utils.ParseShortID(parts[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return slotID, supID, true
}

type markFunc func(ctx context.Context, telegramID int64, slotID, supplementID uuid.UUID) (*models.IntakeLog, error)

// Callback-хендлер для ручной отметки из /today
func HandleSupplementMarkCallback(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		slotID, supID, ok := parseSlotSupplement(c.Data())
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка данных"})
		}

		var mark markFunc
		reply := ""
		switch c.Callback().Unique {
		case utils.BtnSuppTaken:
			mark, reply = svc.MarkTaken, "Отлично!"
		case utils.BtnSuppSkip:
			mark, reply = svc.MarkSkipped, "Пропущено"
		case utils.BtnSuppUnmark:
			mark, reply = svc.Unmark, "Отметка снята"
		default:
			return c.Respond()
		}

		ctx := context.Background()
		if _, err := mark(ctx, c.Sender().ID, slotID, supID); err != nil {
			return respondError(c, log, err)
		}
		view, err := svc.Today(ctx, c.Sender().ID)
		if err != nil {
			return respondError(c, log, err)
		}
		if err := c.Edit(todayText(view), todayMarkup(view)); err != nil {
			log.Warn("Не удалось обновить сообщение", zap.Error(err))
		}
		return c.Respond(&tele.CallbackResponse{Text: reply})
	}
}
