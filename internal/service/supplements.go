package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ParallelMatter/Pillo-sub000/internal/db"
	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddSupplementRequest: то, что пользователь ввёл в мастере добавления.
type AddSupplementRequest struct {
	Name       string `validate:"required,max=100"`
	Category   string `validate:"omitempty,max=32"`
	Dosage     string `validate:"max=32"`
	Unit       string `validate:"max=16"`
	Form       string `validate:"max=32"`
	Barcode    string `validate:"omitempty,max=64"`
	CustomTime string `validate:"omitempty,datetime=15:04"`
	// Повторение учитывается только вместе с CustomTime
	Recurrence models.Recurrence `validate:"-"`
}

func (s *Service) supplementErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrSupplementNotFound
	}
	return err
}

// AddSupplement сохраняет добавку, связывает её со справочником и перестраивает расписание.
func (s *Service) AddSupplement(ctx context.Context, telegramID int64, req AddSupplementRequest) (*models.Supplement, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid supplement: %w", err)
	}

	sup := &models.Supplement{
		CreatedAt: s.now(),
		Name:      req.Name,
		Dosage:    strings.TrimSpace(req.Dosage),
		Unit:      strings.TrimSpace(req.Unit),
		Form:      strings.TrimSpace(req.Form),
		Barcode:   strings.TrimSpace(req.Barcode),
		IsActive:  true,
	}
	if req.CustomTime != "" {
		if _, err := models.ParseClock(req.CustomTime); err != nil {
			return nil, err
		}
		if err := req.Recurrence.Validate(); err != nil {
			return nil, err
		}
		ct := req.CustomTime
		sup.CustomTime = &ct
		sup.CustomRecurrence = req.Recurrence
		if sup.CustomRecurrence.Kind == "" {
			sup.CustomRecurrence = models.Daily()
		}
	} else if !req.Recurrence.IsDaily() {
		return nil, fmt.Errorf("%w: recurrence requires a custom time", models.ErrInvalidRecurrence)
	}

	if ref, ok := s.index.ByName(req.Name); ok {
		sup.ReferenceID = ref.ID
		sup.Category = ref.Category
	}
	if req.Category != "" {
		sup.Category = models.NormalizeCategory(req.Category)
	}
	if sup.Category == "" {
		sup.Category = models.CategoryOther
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	sup.UserID = user.ID
	if err := s.store.CreateSupplement(ctx, sup); err != nil {
		return nil, fmt.Errorf("create supplement: %w", err)
	}
	s.log.Info("Добавка добавлена",
		zap.Int64("telegram_id", telegramID),
		zap.String("name", sup.Name),
		zap.String("reference_id", sup.ReferenceID),
	)

	if err := s.regenerate(ctx, user); err != nil {
		return sup, err
	}
	return sup, nil
}

// RemoveSupplement архивирует добавку, если её хоть раз отмечали принятой, иначе удаляет.
// archived сообщает, что именно произошло.
func (s *Service) RemoveSupplement(ctx context.Context, telegramID int64, id uuid.UUID) (archived bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return false, err
	}
	sup, err := s.store.Supplement(ctx, user.ID, id)
	if err != nil {
		return false, s.supplementErr(err)
	}

	taken, err := s.store.HasTakenLog(ctx, user.ID, id)
	if err != nil {
		return false, err
	}
	if taken {
		now := s.now()
		sup.IsArchived = true
		sup.IsActive = false
		sup.ArchivedAt = &now
		if err := s.store.SaveSupplement(ctx, sup); err != nil {
			return false, fmt.Errorf("archive supplement: %w", err)
		}
	} else if err := s.store.DeleteSupplement(ctx, user.ID, id); err != nil {
		return false, s.supplementErr(err)
	}
	s.log.Info("Добавка удалена",
		zap.Int64("telegram_id", telegramID),
		zap.String("supplement_id", id.String()),
		zap.Bool("archived", taken),
	)

	return taken, s.regenerate(ctx, user)
}

// SetSupplementActive ставит добавку на паузу или возвращает её в расписание.
func (s *Service) SetSupplementActive(ctx context.Context, telegramID int64, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return err
	}
	sup, err := s.store.Supplement(ctx, user.ID, id)
	if err != nil {
		return s.supplementErr(err)
	}
	if sup.IsArchived {
		return ErrSupplementNotFound
	}
	if sup.IsActive == active {
		return nil
	}
	sup.IsActive = active
	if err := s.store.SaveSupplement(ctx, sup); err != nil {
		return err
	}
	return s.regenerate(ctx, user)
}

func (s *Service) Supplements(ctx context.Context, telegramID int64, includeArchived bool) ([]models.Supplement, error) {
	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return s.store.Supplements(ctx, user.ID, includeArchived)
}

func (s *Service) Supplement(ctx context.Context, telegramID int64, id uuid.UUID) (*models.Supplement, error) {
	user, err := s.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	sup, err := s.store.Supplement(ctx, user.ID, id)
	if err != nil {
		return nil, s.supplementErr(err)
	}
	return sup, nil
}
