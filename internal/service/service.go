package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/reference"
	"github.com/ParallelMatter/Pillo-sub000/internal/schedule"
	"github.com/ParallelMatter/Pillo-sub000/internal/widget"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSupplementNotFound = errors.New("supplement not found")
	ErrSlotNotFound       = errors.New("slot not found")
	ErrNotInSlot          = errors.New("supplement is not scheduled in this slot")
)

// Store: хранилище, которое нужно сервису. Реализация: db.Store.
type Store interface {
	EnsureUser(ctx context.Context, telegramID int64, name string) (*models.User, bool, error)
	UserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error

	CreateSupplement(ctx context.Context, sup *models.Supplement) error
	Supplement(ctx context.Context, userID, id uuid.UUID) (*models.Supplement, error)
	Supplements(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Supplement, error)
	SaveSupplement(ctx context.Context, sup *models.Supplement) error
	DeleteSupplement(ctx context.Context, userID, id uuid.UUID) error

	Slots(ctx context.Context, userID uuid.UUID) ([]models.ScheduleSlot, error)
	Slot(ctx context.Context, userID, id uuid.UUID) (*models.ScheduleSlot, error)
	ReplaceSlots(ctx context.Context, userID uuid.UUID, slots []models.ScheduleSlot) error

	Logs(ctx context.Context, userID uuid.UUID) ([]models.IntakeLog, error)
	Log(ctx context.Context, slotID uuid.UUID, date string) (*models.IntakeLog, error)
	SaveLog(ctx context.Context, l *models.IntakeLog) error
	HasTakenLog(ctx context.Context, userID, supplementID uuid.UUID) (bool, error)
}

// Notifier планирует напоминания. Реализация: notify.Scheduler.
type Notifier interface {
	Schedule(user models.User, slots []models.ScheduleSlot, supplements []models.Supplement) error
	Cancel(userID uuid.UUID)
	Snooze(user models.User, slot models.ScheduleSlot, supplements []models.Supplement, after time.Duration) error
}

type WidgetSink interface {
	Write(ctx context.Context, snap widget.Snapshot) error
}

type nopNotifier struct{}

func (nopNotifier) Schedule(models.User, []models.ScheduleSlot, []models.Supplement) error {
	return nil
}
func (nopNotifier) Cancel(uuid.UUID) {}
func (nopNotifier) Snooze(models.User, models.ScheduleSlot, []models.Supplement, time.Duration) error {
	return nil
}

// Service связывает хранилище, движок расписания, напоминания и виджет.
// Все изменения состояния пользователя идут через него.
type Service struct {
	store    Store
	index    *reference.Index
	engine   *schedule.Engine
	notifier Notifier
	sink     WidgetSink
	loc      *time.Location
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time

	// перегенерация и отметки одного пользователя не должны перемешиваться
	mu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithWidgetSink(sink WidgetSink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

func New(store Store, idx *reference.Index, loc *time.Location, log *zap.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:    store,
		index:    idx,
		engine:   schedule.NewEngine(idx),
		notifier: nopNotifier{},
		sink:     widget.Nop{},
		loc:      loc,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetNotifier подключает напоминания после создания сервиса
// (планировщику самому нужен сервис как источник статусов).
func (s *Service) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

func (s *Service) Index() *reference.Index {
	return s.index
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) today() time.Time {
	return models.StartOfDay(s.now().In(s.loc))
}

// Start регистрирует пользователя при первом /start и возвращает его.
func (s *Service) Start(ctx context.Context, telegramID int64, name string) (*models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, created, err := s.store.EnsureUser(ctx, telegramID, name)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("Пользователь зарегистрирован", zap.Int64("telegram_id", telegramID))
	}
	return user, created, nil
}

func (s *Service) User(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.store.UserByTelegramID(ctx, telegramID)
}

// Users нужен для еженедельной рассылки.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	return s.store.Users(ctx)
}
