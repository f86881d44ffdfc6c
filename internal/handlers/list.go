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

func supplementInfoText(s models.Supplement, slot *service.ScheduledSlot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Добавка: %s\n", s.Name)
	if s.Dosage != "" {
		fmt.Fprintf(&b, "Дозировка: %s %s\n", s.Dosage, s.Unit)
	}
	if label, ok := categoryLabels[s.Category]; ok {
		fmt.Fprintf(&b, "Категория: %s\n", label)
	}
	if s.ReferenceID == "" {
		b.WriteString("Справочник: не найдена\n")
	}

	switch {
	case !s.IsActive:
		b.WriteString("Статус: ⏸ на паузе")
	case slot != nil:
		fmt.Fprintf(&b, "Время приёма: %s, %s (%s)", slot.Slot.Time, utils.ContextLabel(slot.Slot.Context), utils.RecurrenceLabel(slot.Slot.Recurrence))
		if slot.Slot.Explanation != "" {
			b.WriteString("\n💡 " + slot.Slot.Explanation)
		}
	default:
		b.WriteString("Время приёма: не назначено")
	}
	return b.String()
}

func parseSupplementID(c tele.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Data())
	return id, err == nil
}

func supplementDetailHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		id, ok := parseSupplementID(c)
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка ID"})
		}
		ctx := context.Background()
		sup, err := svc.Supplement(ctx, c.Sender().ID, id)
		if err != nil {
			return respondError(c, log, err)
		}

		var slot *service.ScheduledSlot
		if slots, err := svc.Schedule(ctx, c.Sender().ID); err == nil {
			for i := range slots {
				if slots[i].Slot.Contains(id) {
					slot = &slots[i]
					break
				}
			}
		}

		markup := &tele.ReplyMarkup{}
		pauseLabel := "⏸ Пауза"
		if !sup.IsActive {
			pauseLabel = "▶️ Возобновить"
		}
		btnPause := markup.Data(pauseLabel, utils.BtnSuppPause, sup.ID.String())
		btnDelete := markup.Data("🗑 Удалить", utils.BtnSuppRemove, sup.ID.String())
		markup.Inline(markup.Row(btnPause, btnDelete))
		_ = c.Respond()
		return c.Edit(supplementInfoText(*sup, slot), markup)
	}
}

func supplementPauseHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		id, ok := parseSupplementID(c)
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка ID"})
		}
		ctx := context.Background()
		sup, err := svc.Supplement(ctx, c.Sender().ID, id)
		if err != nil {
			return respondError(c, log, err)
		}
		if err := svc.SetSupplementActive(ctx, c.Sender().ID, id, !sup.IsActive); err != nil {
			return respondError(c, log, err)
		}
		text := "Добавка на паузе ⏸"
		if !sup.IsActive {
			text = "Добавка снова в расписании ▶️"
		}
		_ = c.Respond(&tele.CallbackResponse{Text: text})
		return supplementDetailHandler(svc, log)(c)
	}
}

func supplementDeleteHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		id, ok := parseSupplementID(c)
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка ID"})
		}
		sup, err := svc.Supplement(context.Background(), c.Sender().ID, id)
		if err != nil {
			return respondError(c, log, err)
		}
		markup := &tele.ReplyMarkup{}
		btnYes := markup.Data("✅ Да, удалить", utils.BtnSuppConfirm, sup.ID.String())
		btnNo := markup.Data("❌ Нет", utils.BtnSuppDetail, sup.ID.String())
		markup.Inline(markup.Row(btnYes, btnNo))
		_ = c.Respond()
		return c.Edit(fmt.Sprintf("Точно удалить добавку %s?", sup.Name), markup)
	}
}

func supplementDeleteConfirmHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		id, ok := parseSupplementID(c)
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "Ошибка ID"})
		}
		archived, err := svc.RemoveSupplement(context.Background(), c.Sender().ID, id)
		if err != nil {
			return respondError(c, log, err)
		}
		_ = c.Respond()
		if archived {
			return c.Edit("Добавка убрана из расписания ✅\nИстория приёма сохранена.", &tele.ReplyMarkup{})
		}
		return c.Edit("Добавка удалена ✅", &tele.ReplyMarkup{})
	}
}

// Регистрация callback-хендлеров для списка
func RegisterListCallbacks(b *tele.Bot, svc *service.Service, log *zap.Logger) {
	b.Handle(&tele.Btn{Unique: utils.BtnSuppDetail}, supplementDetailHandler(svc, log))
	b.Handle(&tele.Btn{Unique: utils.BtnSuppPause}, supplementPauseHandler(svc, log))
	b.Handle(&tele.Btn{Unique: utils.BtnSuppRemove}, supplementDeleteHandler(svc, log))
	b.Handle(&tele.Btn{Unique: utils.BtnSuppConfirm}, supplementDeleteConfirmHandler(svc, log))
}

func createListInlineMarkup(supplements []models.Supplement) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, s := range supplements {
		label := s.Name
		if !s.IsActive {
			label = "⏸ " + label
		}
		btn := markup.Data(label, utils.BtnSuppDetail, s.ID.String())
		rows = append(rows, markup.Row(btn))
	}
	markup.Inline(rows...)
	return markup
}

func ListHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	log.Info("ListHandler initialized")
	return func(c tele.Context) error {
		supplements, err := svc.Supplements(context.Background(), c.Sender().ID, false)
		if err != nil {
			return replyError(c, log, err)
		}
		if len(supplements) == 0 {
			return c.Send("У тебя пока нет добавок. Добавить: /add")
		}

		// Формируем список добавок с inline-кнопками
		markup := createListInlineMarkup(supplements)
		return c.Send("Твои добавки:", markup)
	}
}
