package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/db"
	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) slot(ctx context.Context, userID, slotID uuid.UUID) (*models.ScheduleSlot, error) {
	slot, err := s.store.Slot(ctx, userID, slotID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

// logFor возвращает запись за день или новую несохранённую.
func (s *Service) logFor(ctx context.Context, userID, slotID uuid.UUID, date string) (*models.IntakeLog, error) {
	l, err := s.store.Log(ctx, slotID, date)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	return &models.IntakeLog{UserID: userID, SlotID: slotID, Date: date}, nil
}

// updateToday применяет fn к сегодняшней записи слота и сохраняет результат.
func (s *Service) updateToday(ctx context.Context, telegramID int64, slotID uuid.UUID, fn func(*models.IntakeLog, *models.ScheduleSlot) error) (*models.IntakeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	slot, err := s.slot(ctx, user.ID, slotID)
	if err != nil {
		return nil, err
	}
	l, err := s.logFor(ctx, user.ID, slot.ID, models.DateString(s.today()))
	if err != nil {
		return nil, err
	}
	if err := fn(l, slot); err != nil {
		return nil, err
	}
	if err := s.store.SaveLog(ctx, l); err != nil {
		return nil, fmt.Errorf("save intake log: %w", err)
	}
	s.pushWidget(ctx, user)
	return l, nil
}

func inSlot(slot *models.ScheduleSlot, supplementID uuid.UUID) error {
	if !slot.Contains(supplementID) {
		return ErrNotInSlot
	}
	return nil
}

// MarkTaken отмечает добавку принятой сегодня.
func (s *Service) MarkTaken(ctx context.Context, telegramID int64, slotID, supplementID uuid.UUID) (*models.IntakeLog, error) {
	return s.updateToday(ctx, telegramID, slotID, func(l *models.IntakeLog, slot *models.ScheduleSlot) error {
		if err := inSlot(slot, supplementID); err != nil {
			return err
		}
		l.MarkTaken(supplementID, s.now())
		return nil
	})
}

func (s *Service) MarkSkipped(ctx context.Context, telegramID int64, slotID, supplementID uuid.UUID) (*models.IntakeLog, error) {
	return s.updateToday(ctx, telegramID, slotID, func(l *models.IntakeLog, slot *models.ScheduleSlot) error {
		if err := inSlot(slot, supplementID); err != nil {
			return err
		}
		l.MarkSkipped(supplementID)
		return nil
	})
}

// Unmark снимает отметку; запись без отметок удаляется.
func (s *Service) Unmark(ctx context.Context, telegramID int64, slotID, supplementID uuid.UUID) (*models.IntakeLog, error) {
	return s.updateToday(ctx, telegramID, slotID, func(l *models.IntakeLog, _ *models.ScheduleSlot) error {
		l.Unmark(supplementID)
		return nil
	})
}

// MarkSlotTaken отмечает принятыми все добавки слота.
func (s *Service) MarkSlotTaken(ctx context.Context, telegramID int64, slotID uuid.UUID) (*models.IntakeLog, error) {
	return s.updateToday(ctx, telegramID, slotID, func(l *models.IntakeLog, slot *models.ScheduleSlot) error {
		at := s.now()
		for _, id := range slot.SupplementIDs {
			l.MarkTaken(id, at)
		}
		return nil
	})
}

// MarkSlotSkipped пропускает все ещё не принятые добавки слота.
func (s *Service) MarkSlotSkipped(ctx context.Context, telegramID int64, slotID uuid.UUID) (*models.IntakeLog, error) {
	return s.updateToday(ctx, telegramID, slotID, func(l *models.IntakeLog, slot *models.ScheduleSlot) error {
		for _, id := range slot.SupplementIDs {
			if !l.IsTaken(id) {
				l.MarkSkipped(id)
			}
		}
		return nil
	})
}

// RemindLater откладывает напоминание по слоту на after. Время сохраняется в записи
// за сегодня, только если в ней уже есть отметки: пустые записи не хранятся.
func (s *Service) RemindLater(ctx context.Context, telegramID int64, slotID uuid.UUID, after time.Duration) (time.Time, error) {
	if after <= 0 {
		return time.Time{}, fmt.Errorf("remind later: duration must be positive, got %s", after)
	}
	at := s.now().Add(after)

	var snoozed models.ScheduleSlot
	_, err := s.updateToday(ctx, telegramID, slotID, func(l *models.IntakeLog, slot *models.ScheduleSlot) error {
		if slot.IsPlaceholder() {
			return ErrSlotNotFound
		}
		l.RescheduledFor = &at
		snoozed = *slot
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}

	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return time.Time{}, err
	}
	sups, err := s.store.Supplements(ctx, user.ID, false)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.notifier.Snooze(*user, snoozed, sups, after); err != nil {
		return time.Time{}, fmt.Errorf("snooze reminder: %w", err)
	}
	s.log.Info("Напоминание отложено", zap.Int64("telegram_id", telegramID), zap.String("slot_id", slotID.String()), zap.Time("at", at))
	return at, nil
}

// IsSlotDone: по каждой добавке слота за день есть отметка (принята или пропущена).
// Используется планировщиком, чтобы не напоминать о том, что уже отмечено.
func (s *Service) IsSlotDone(ctx context.Context, userID, slotID uuid.UUID, date time.Time) (bool, error) {
	slot, err := s.slot(ctx, userID, slotID)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			// слот удалён перегенерацией, напоминать не о чем
			return true, nil
		}
		return false, err
	}
	l, err := s.store.Log(ctx, slotID, models.DateString(date.In(s.loc)))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return slot.IsPlaceholder(), nil
		}
		return false, err
	}
	for _, id := range slot.SupplementIDs {
		if !l.IsTaken(id) && !l.IsSkipped(id) {
			return false, nil
		}
	}
	return true, nil
}
