package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ParallelMatter/Pillo-sub000/internal/db"
	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

func StartHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	log.Info("StartHandler initialized")
	return func(c tele.Context) error {
		telegramID := c.Sender().ID
		name := c.Sender().FirstName

		user, created, err := svc.Start(context.Background(), telegramID, name)
		if err != nil {
			log.Error("Ошибка при создании пользователя", zap.Int64("telegram_id", telegramID), zap.Error(err))
			return c.Send("Произошла ошибка при регистрации, попробуйте позже 🙁")
		}

		menu := utils.MainMenuKeyboard()
		if created {
			// Приветствие для нового пользователя
			msg := fmt.Sprintf(
				`👋 Привет, %s!

Я помогу составить расписание приёма витаминов и добавок 💊 и буду напоминать о них.

✅ Раскладываю добавки по времени с учётом еды и совместимости.
✅ Напоминаю и отмечаю приём одним нажатием.
✅ Считаю серию дней без пропусков и показываю прогресс.

Сейчас завтрак в %s, обед в %s, ужин в %s.
Поменять: /meals 08:00 13:00 19:00

Чтобы добавить первую добавку, отправь /add
`, name, user.BreakfastTime, user.LunchTime, user.DinnerTime)
			return c.Send(msg, menu)
		}

		msg := fmt.Sprintf("👋 Привет снова, %s!\nПродолжаем следить за твоим здоровьем 💪", user.Name)
		return c.Send(msg, menu)
	}
}

// replyError переводит ошибки сервиса в ответ пользователю.
func replyError(c tele.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, db.ErrUserNotFound):
		return c.Send("Сначала отправь /start 🙂")
	case errors.Is(err, service.ErrSupplementNotFound):
		return c.Send("Добавка не найдена.")
	case errors.Is(err, service.ErrSlotNotFound), errors.Is(err, service.ErrNotInSlot):
		return c.Send("Этот приём уже не в расписании. Открой /today.")
	}
	log.Error("Ошибка обработки запроса", zap.Int64("telegram_id", c.Sender().ID), zap.Error(err))
	return c.Send("Что-то пошло не так, попробуй позже 🙁")
}

// respondError: то же для callback-кнопок: короткое всплывающее сообщение.
func respondError(c tele.Context, log *zap.Logger, err error) error {
	text := "Ошибка, попробуй позже"
	switch {
	case errors.Is(err, db.ErrUserNotFound):
		text = "Сначала отправь /start"
	case errors.Is(err, service.ErrSupplementNotFound):
		text = "Добавка не найдена"
	case errors.Is(err, service.ErrSlotNotFound), errors.Is(err, service.ErrNotInSlot):
		text = "Приём уже не в расписании"
	default:
		log.Error("Ошибка обработки callback", zap.String("data", c.Data()), zap.Error(err))
	}
	return c.Respond(&tele.CallbackResponse{Text: text})
}
