package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

const digestSpec = "0 7 * * 1"

// Sender: то, что нужно от *tele.Bot для отправки напоминаний.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// StatusSource сообщает, отмечен ли уже слот за день; такие напоминания не отправляются.
type StatusSource interface {
	IsSlotDone(ctx context.Context, userID, slotID uuid.UUID, date time.Time) (bool, error)
}

// DigestSource готовит еженедельный отчёт.
type DigestSource interface {
	Users(ctx context.Context) ([]models.User, error)
	WeeklyDigest(ctx context.Context, user models.User) (string, error)
}

type reminder struct {
	user        models.User
	slot        models.ScheduleSlot
	supplements []string
}

// Scheduler держит cron-задачи напоминаний: по одной на (слот, день повторения).
type Scheduler struct {
	cron   *cron.Cron
	sender Sender
	status StatusSource
	digest DigestSource
	log    *zap.Logger
	loc    *time.Location
	window int
	now    func() time.Time

	mu      sync.Mutex
	byUser  map[uuid.UUID][]uuid.UUID
	bySlot  map[uuid.UUID][]cron.EntryID
	snoozes map[uuid.UUID]cron.EntryID
}

type Option func(*Scheduler)

func WithStatus(src StatusSource) Option {
	return func(s *Scheduler) { s.status = src }
}

func WithDigest(src DigestSource) Option {
	return func(s *Scheduler) { s.digest = src }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func NewScheduler(sender Sender, loc *time.Location, window int, log *zap.Logger, opts ...Option) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		sender:  sender,
		log:     log,
		loc:     loc,
		window:  window,
		now:     time.Now,
		byUser:  make(map[uuid.UUID][]uuid.UUID),
		bySlot:  make(map[uuid.UUID][]cron.EntryID),
		snoozes: make(map[uuid.UUID]cron.EntryID),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Запускает планировщик и еженедельную статистику (понедельник, 07:00)
func (s *Scheduler) Start() error {
	if s.digest != nil {
		if _, err := s.cron.AddFunc(digestSpec, func() {
			log := s.log.With(zap.String("job", "weekly_digest"))
			log.Info("Отправка еженедельной статистики")
			s.SendWeeklyDigests(context.Background())
		}); err != nil {
			return fmt.Errorf("digest job: %w", err)
		}
	}
	s.cron.Start()
	s.log.Info("Reminder scheduler started", zap.String("timezone", s.loc.String()))
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Schedule заменяет все напоминания пользователя набором для переданных слотов.
func (s *Scheduler) Schedule(user models.User, slots []models.ScheduleSlot, supplements []models.Supplement) error {
	s.Cancel(user.ID)
	if !user.NotificationsEnabled {
		return nil
	}

	names := make(map[uuid.UUID]string, len(supplements))
	for _, sup := range supplements {
		names[sup.ID] = displayName(sup)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	count := 0
	for _, slot := range slots {
		if slot.IsPlaceholder() {
			continue
		}
		r := reminder{user: user, slot: slot}
		for _, id := range slot.SupplementIDs {
			if n, ok := names[id]; ok {
				r.supplements = append(r.supplements, n)
			}
		}
		job := cron.FuncJob(func() { s.remind(context.Background(), r) })

		var ids []cron.EntryID
		if slot.Recurrence.Kind == models.RecurrenceEveryNDays {
			sched, err := everyNDaysWindow(slot, now, s.window)
			if err != nil {
				s.log.Warn("Пропускаем слот с некорректным повторением", zap.String("slot_id", slot.ID.String()), zap.Error(err))
				continue
			}
			ids = append(ids, s.cron.Schedule(sched, job))
		} else {
			specs, err := specsFor(slot)
			if err != nil {
				// слот без корректного времени не участвует в напоминаниях
				s.log.Warn("Пропускаем слот без времени", zap.String("slot_id", slot.ID.String()), zap.String("time", slot.Time))
				continue
			}
			for _, spec := range specs {
				id, err := s.cron.AddJob(spec, job)
				if err != nil {
					s.log.Warn("Некорректное cron-выражение", zap.String("spec", spec), zap.Error(err))
					continue
				}
				ids = append(ids, id)
			}
		}
		s.bySlot[slot.ID] = append(s.bySlot[slot.ID], ids...)
		s.byUser[user.ID] = append(s.byUser[user.ID], slot.ID)
		count += len(ids)
	}
	s.log.Debug("Reminders scheduled", zap.String("user_id", user.ID.String()), zap.Int("entries", count))
	return nil
}

// Cancel снимает все напоминания пользователя, включая отложенные.
func (s *Scheduler) Cancel(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slotID := range s.byUser[userID] {
		s.cancelSlotLocked(slotID)
	}
	delete(s.byUser, userID)
}

func (s *Scheduler) CancelSlot(slotID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelSlotLocked(slotID)
}

func (s *Scheduler) cancelSlotLocked(slotID uuid.UUID) {
	for _, id := range s.bySlot[slotID] {
		s.cron.Remove(id)
	}
	delete(s.bySlot, slotID)
	if id, ok := s.snoozes[slotID]; ok {
		s.cron.Remove(id)
		delete(s.snoozes, slotID)
	}
}

// Snooze повторяет напоминание по слоту через after. Предыдущее отложенное напоминание слота заменяется.
func (s *Scheduler) Snooze(user models.User, slot models.ScheduleSlot, supplements []models.Supplement, after time.Duration) error {
	if after <= 0 {
		return fmt.Errorf("snooze duration must be positive, got %s", after)
	}
	r := reminder{user: user, slot: slot}
	for _, sup := range supplements {
		if slot.Contains(sup.ID) {
			r.supplements = append(r.supplements, displayName(sup))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.snoozes[slot.ID]; ok {
		s.cron.Remove(id)
	}
	at := s.now().Add(after)
	var id cron.EntryID
	id = s.cron.Schedule(onceSchedule{at: at}, cron.FuncJob(func() {
		s.mu.Lock()
		if cur, ok := s.snoozes[slot.ID]; ok && cur == id {
			delete(s.snoozes, slot.ID)
		}
		s.mu.Unlock()
		s.cron.Remove(id)
		s.remind(context.Background(), r)
	}))
	s.snoozes[slot.ID] = id
	s.log.Info("Напоминание отложено", zap.String("slot_id", slot.ID.String()), zap.Time("at", at))
	return nil
}

// Entries: число активных cron-задач (для диагностики).
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) remind(ctx context.Context, r reminder) {
	log := s.log.With(zap.Int64("telegram_id", r.user.TelegramID), zap.String("slot_id", r.slot.ID.String()))
	if s.status != nil {
		done, err := s.status.IsSlotDone(ctx, r.user.ID, r.slot.ID, s.now().In(s.loc))
		if err != nil {
			log.Warn("Не удалось проверить отметку приёма", zap.Error(err))
		} else if done {
			return
		}
	}

	_, err := s.sender.Send(&tele.User{ID: r.user.TelegramID}, reminderText(r), utils.ReminderKeyboard(r.slot.ID.String()))
	if err != nil {
		log.Warn("Не удалось отправить напоминание", zap.Error(err))
		return
	}
	log.Info("Запуск напоминания")
}

// SendWeeklyDigests отправляет всем пользователям отчёт за последние 7 дней.
func (s *Scheduler) SendWeeklyDigests(ctx context.Context) {
	if s.digest == nil {
		return
	}
	users, err := s.digest.Users(ctx)
	if err != nil {
		s.log.Error("Ошибка получения пользователей", zap.Error(err))
		return
	}
	for _, user := range users {
		if !user.NotificationsEnabled {
			continue
		}
		msg, err := s.digest.WeeklyDigest(ctx, user)
		if err != nil {
			s.log.Warn("Не удалось собрать статистику", zap.Int64("telegram_id", user.TelegramID), zap.Error(err))
			continue
		}
		if msg == "" {
			continue
		}
		_, err = s.sender.Send(&tele.User{ID: user.TelegramID}, msg, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		if err != nil {
			s.log.Warn("Не удалось отправить статистику", zap.Int64("telegram_id", user.TelegramID), zap.Error(err))
		}
	}
}

func reminderText(r reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Напоминание! %s, %s:\n", r.slot.Time, utils.ContextLabel(r.slot.Context))
	for _, n := range r.supplements {
		b.WriteString("• ")
		b.WriteString(n)
		b.WriteString("\n")
	}
	if r.slot.Explanation != "" {
		b.WriteString("\n💡 ")
		b.WriteString(r.slot.Explanation)
	}
	return strings.TrimRight(b.String(), "\n")
}

func displayName(s models.Supplement) string {
	parts := []string{s.Name}
	if s.Dosage != "" {
		parts = append(parts, strings.TrimSpace(s.Dosage+" "+s.Unit))
	}
	return strings.Join(parts, " ")
}
