package service

import (
	"context"
	"fmt"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/schedule"
	"go.uber.org/zap"
)

// MealTimesRequest: новые времена приёмов пищи в формате "HH:mm".
type MealTimesRequest struct {
	Breakfast     string `validate:"required,datetime=15:04"`
	Lunch         string `validate:"required,datetime=15:04"`
	Dinner        string `validate:"required,datetime=15:04"`
	SkipBreakfast bool
}

// Regenerate перестраивает расписание пользователя с нуля и сохраняет id совпавших слотов.
func (s *Service) Regenerate(ctx context.Context, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return err
	}
	return s.regenerate(ctx, user)
}

// regenerate вызывается под s.mu.
func (s *Service) regenerate(ctx context.Context, user *models.User) error {
	log := s.log.With(zap.Int64("telegram_id", user.TelegramID))

	sups, err := s.store.Supplements(ctx, user.ID, false)
	if err != nil {
		return fmt.Errorf("load supplements: %w", err)
	}
	generated, err := s.engine.Generate(schedule.MealTimesOf(*user), sups)
	if err != nil {
		return fmt.Errorf("generate schedule: %w", err)
	}
	existing, err := s.store.Slots(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("load slots: %w", err)
	}
	logs, err := s.store.Logs(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("load logs: %w", err)
	}

	merged := schedule.Merge(existing, logs, generated)
	slots := merged.All()
	if err := s.store.ReplaceSlots(ctx, user.ID, slots); err != nil {
		return err
	}
	log.Info("Расписание перестроено",
		zap.Int("slots", len(merged.Slots)),
		zap.Int("placeholders", len(merged.Placeholders)),
		zap.Int("preserved", len(merged.Preserved)),
	)

	if len(merged.Active()) == 0 {
		s.notifier.Cancel(user.ID)
	} else if err := s.notifier.Schedule(*user, slots, sups); err != nil {
		// расписание уже сохранено, напоминания восстановятся при следующем запуске
		log.Warn("Не удалось запланировать напоминания", zap.Error(err))
	}

	s.pushWidget(ctx, user)
	return nil
}

// UpdateMeals меняет время приёмов пищи и перестраивает расписание.
func (s *Service) UpdateMeals(ctx context.Context, telegramID int64, req MealTimesRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid meal times: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return err
	}
	user.BreakfastTime = req.Breakfast
	user.LunchTime = req.Lunch
	user.DinnerTime = req.Dinner
	user.SkipBreakfast = req.SkipBreakfast
	if err := s.store.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save meal times: %w", err)
	}
	return s.regenerate(ctx, user)
}

// SetNotifications включает или выключает напоминания пользователя.
func (s *Service) SetNotifications(ctx context.Context, telegramID int64, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return err
	}
	user.NotificationsEnabled = enabled
	if err := s.store.SaveUser(ctx, user); err != nil {
		return err
	}
	if !enabled {
		s.notifier.Cancel(user.ID)
		return nil
	}
	return s.scheduleReminders(ctx, user)
}

func (s *Service) scheduleReminders(ctx context.Context, user *models.User) error {
	slots, err := s.store.Slots(ctx, user.ID)
	if err != nil {
		return err
	}
	sups, err := s.store.Supplements(ctx, user.ID, false)
	if err != nil {
		return err
	}
	return s.notifier.Schedule(*user, slots, sups)
}

// RestoreReminders планирует напоминания всех пользователей по сохранённым слотам (при старте бота).
func (s *Service) RestoreReminders(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Users(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if err := s.scheduleReminders(ctx, &users[i]); err != nil {
			s.log.Warn("Не удалось восстановить напоминания", zap.Int64("telegram_id", users[i].TelegramID), zap.Error(err))
		}
	}
	s.log.Info("Напоминания восстановлены", zap.Int("users", len(users)))
	return nil
}

// ScheduledSlot: слот вместе с добавками для отображения.
type ScheduledSlot struct {
	Slot        models.ScheduleSlot
	Supplements []models.Supplement
}

// Schedule возвращает текущее расписание без заглушек.
func (s *Service) Schedule(ctx context.Context, telegramID int64) ([]ScheduledSlot, error) {
	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	slots, err := s.store.Slots(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	sups, err := s.store.Supplements(ctx, user.ID, true)
	if err != nil {
		return nil, err
	}
	byID := supplementsByID(sups)

	var out []ScheduledSlot
	for _, slot := range slots {
		if slot.IsPlaceholder() {
			continue
		}
		item := ScheduledSlot{Slot: slot}
		for _, id := range slot.SupplementIDs {
			if sup, ok := byID[id]; ok {
				item.Supplements = append(item.Supplements, sup)
			}
		}
		out = append(out, item)
	}
	return out, nil
}
