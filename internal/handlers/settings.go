package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

const mealsUsage = "Формат: /meals 08:00 13:00 19:00\nДобавь skip, если не завтракаешь: /meals 08:00 13:00 19:00 skip"

// parseMeals разбирает "HH:mm HH:mm HH:mm [skip]".
func parseMeals(payload string) (service.MealTimesRequest, bool) {
	fields := strings.Fields(payload)
	if len(fields) != 3 && len(fields) != 4 {
		return service.MealTimesRequest{}, false
	}
	req := service.MealTimesRequest{Breakfast: fields[0], Lunch: fields[1], Dinner: fields[2]}
	if len(fields) == 4 {
		if strings.ToLower(fields[3]) != "skip" {
			return service.MealTimesRequest{}, false
		}
		req.SkipBreakfast = true
	}
	return req, true
}

// /meals: время завтрака, обеда и ужина; без аргументов показывает текущие
func MealsHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		ctx := context.Background()
		payload := strings.TrimSpace(c.Message().Payload)
		if payload == "" {
			user, err := svc.User(ctx, c.Sender().ID)
			if err != nil {
				return replyError(c, log, err)
			}
			skip := ""
			if user.SkipBreakfast {
				skip = " (завтрак пропускаю)"
			}
			return c.Send(fmt.Sprintf("🍽 Завтрак %s, обед %s, ужин %s%s\n\n%s",
				user.BreakfastTime, user.LunchTime, user.DinnerTime, skip, mealsUsage))
		}

		req, ok := parseMeals(payload)
		if !ok {
			return c.Send(mealsUsage)
		}
		if err := svc.UpdateMeals(ctx, c.Sender().ID, req); err != nil {
			log.Warn("Не удалось обновить время еды", zap.Int64("telegram_id", c.Sender().ID), zap.Error(err))
			return c.Send("❌ Проверь время, формат HH:MM.\n\n" + mealsUsage)
		}
		return c.Send("✅ Время еды обновлено, расписание перестроено. Посмотреть: /schedule")
	}
}
