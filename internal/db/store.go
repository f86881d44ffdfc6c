package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUserNotFound = fmt.Errorf("user: %w", ErrNotFound)
)

// Store: хранилище пользователей, добавок, слотов и журнала приёма поверх gorm.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// EnsureUser возвращает пользователя по Telegram ID, создавая его при первом обращении.
func (s *Store) EnsureUser(ctx context.Context, telegramID int64, name string) (*models.User, bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(&models.User{TelegramID: telegramID}).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	user = models.User{
		TelegramID:           telegramID,
		Name:                 name,
		BreakfastTime:        "08:00",
		LunchTime:            "12:30",
		DinnerTime:           "19:00",
		NotificationsEnabled: true,
		TrackingStartedAt:    &now,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("Новый пользователь", zap.Int64("telegram_id", telegramID), zap.String("user_id", user.ID.String()))
	return &user, true, nil
}

func (s *Store) UserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(&models.User{TelegramID: telegramID}).First(&user).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *Store) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *Store) CreateSupplement(ctx context.Context, sup *models.Supplement) error {
	return s.db.WithContext(ctx).Create(sup).Error
}

func (s *Store) Supplement(ctx context.Context, userID, id uuid.UUID) (*models.Supplement, error) {
	var sup models.Supplement
	err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&sup).Error
	if err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &sup, nil
}

// Supplements возвращает добавки пользователя в порядке добавления; архивные только по запросу.
func (s *Store) Supplements(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Supplement, error) {
	var sups []models.Supplement
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	if err := q.Order("created_at").Find(&sups).Error; err != nil {
		return nil, err
	}
	return sups, nil
}

func (s *Store) SaveSupplement(ctx context.Context, sup *models.Supplement) error {
	return s.db.WithContext(ctx).Save(sup).Error
}

func (s *Store) DeleteSupplement(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&models.Supplement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Slots(ctx context.Context, userID uuid.UUID) ([]models.ScheduleSlot, error) {
	var slots []models.ScheduleSlot
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("sort_order").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *Store) Slot(ctx context.Context, userID, id uuid.UUID) (*models.ScheduleSlot, error) {
	var slot models.ScheduleSlot
	if err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&slot).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &slot, nil
}

// ReplaceSlots атомарно заменяет весь набор слотов пользователя.
func (s *Store) ReplaceSlots(ctx context.Context, userID uuid.UUID, slots []models.ScheduleSlot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.ScheduleSlot{}).Error; err != nil {
			return fmt.Errorf("delete slots: %w", err)
		}
		if len(slots) == 0 {
			return nil
		}
		for i := range slots {
			slots[i].UserID = userID
		}
		if err := tx.Create(&slots).Error; err != nil {
			return fmt.Errorf("insert slots: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Не удалось сохранить расписание", zap.String("user_id", userID.String()), zap.Error(err))
		return err
	}
	s.log.Debug("Schedule saved", zap.String("user_id", userID.String()), zap.Int("slots", len(slots)))
	return nil
}

func (s *Store) Logs(ctx context.Context, userID uuid.UUID) ([]models.IntakeLog, error) {
	var logs []models.IntakeLog
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Log ищет запись о приёме по слоту и дате; ErrNotFound значит «ещё ничего не отмечено».
func (s *Store) Log(ctx context.Context, slotID uuid.UUID, date string) (*models.IntakeLog, error) {
	var l models.IntakeLog
	if err := s.db.WithContext(ctx).Where(&models.IntakeLog{SlotID: slotID, Date: date}).First(&l).Error; err != nil {
		return nil, notFound(err, ErrNotFound)
	}
	return &l, nil
}

// SaveLog сохраняет запись по паре (слот, дата); пустая запись удаляется.
func (s *Store) SaveLog(ctx context.Context, l *models.IntakeLog) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.IntakeLog
		err := tx.Where(&models.IntakeLog{SlotID: l.SlotID, Date: l.Date}).First(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if l.IsEmpty() {
			if found {
				return tx.Delete(&existing).Error
			}
			return nil
		}
		if found {
			l.ID = existing.ID
			l.CreatedAt = existing.CreatedAt
			return tx.Save(l).Error
		}
		return tx.Create(l).Error
	})
}

// HasTakenLog: отмечалась ли добавка принятой хотя бы раз.
func (s *Store) HasTakenLog(ctx context.Context, userID, supplementID uuid.UUID) (bool, error) {
	logs, err := s.Logs(ctx, userID)
	if err != nil {
		return false, err
	}
	for i := range logs {
		if logs[i].IsTaken(supplementID) {
			return true, nil
		}
	}
	return false, nil
}
