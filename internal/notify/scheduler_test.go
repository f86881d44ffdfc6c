package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

type sentMessage struct {
	to   string
	text string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	text, _ := what.(string)
	f.sent = append(f.sent, sentMessage{to: to.Recipient(), text: text})
	return &tele.Message{}, nil
}

type fakeStatus struct {
	done map[uuid.UUID]bool
}

func (f fakeStatus) IsSlotDone(_ context.Context, _, slotID uuid.UUID, _ time.Time) (bool, error) {
	return f.done[slotID], nil
}

type fakeDigest struct {
	users []models.User
}

func (f fakeDigest) Users(context.Context) ([]models.User, error) { return f.users, nil }

func (f fakeDigest) WeeklyDigest(_ context.Context, u models.User) (string, error) {
	if u.Name == "broken" {
		return "", errors.New("boom")
	}
	return "digest for " + u.Name, nil
}

var monday = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func newTestScheduler(sender *fakeSender, opts ...Option) *Scheduler {
	opts = append([]Option{WithClock(func() time.Time { return monday })}, opts...)
	return NewScheduler(sender, time.UTC, 5, zap.NewNop(), opts...)
}

func TestSpecsFor(t *testing.T) {
	daily, err := specsFor(models.ScheduleSlot{Time: "08:05"})
	require.NoError(t, err)
	assert.Equal(t, []string{"5 8 * * *"}, daily)

	days, err := specsFor(models.ScheduleSlot{Time: "21:00", Recurrence: models.SpecificDays(2, 4, 6)})
	require.NoError(t, err)
	assert.Equal(t, []string{"0 21 * * 1", "0 21 * * 3", "0 21 * * 5"}, days)

	weekly, err := specsFor(models.ScheduleSlot{Time: "07:30", Recurrence: models.Weekly(1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"30 7 * * 0"}, weekly)

	_, err = specsFor(models.ScheduleSlot{Time: "25:00"})
	assert.ErrorIs(t, err, models.ErrInvalidClock)
}

func TestEveryNDaysWindow(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	slot := models.ScheduleSlot{Time: "08:00", Recurrence: models.EveryNDays(3, start)}

	sched, err := everyNDaysWindow(slot, monday, 3)
	require.NoError(t, err)

	// 1 марта + 3k: 04.03 в 08:00 уже прошло, дальше 07, 10, 13
	next := sched.Next(monday)
	assert.Equal(t, time.Date(2024, 3, 7, 8, 0, 0, 0, time.UTC), next)
	next = sched.Next(next)
	assert.Equal(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), next)
	next = sched.Next(next)
	assert.Equal(t, time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC), next)
	assert.True(t, sched.Next(next).IsZero())

	_, err = everyNDaysWindow(models.ScheduleSlot{Time: "08:00", Recurrence: models.Recurrence{Kind: models.RecurrenceEveryNDays, Interval: 1}}, monday, 3)
	assert.ErrorIs(t, err, models.ErrInvalidRecurrence)
}

func TestEveryNDaysWindowMatchesIsActiveOn(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	rec := models.EveryNDays(2, time.Date(2024, 6, 10, 9, 0, 0, 0, msk))
	stored := rec.StartDate.UTC()
	rec.StartDate = &stored
	slot := models.ScheduleSlot{Time: "08:00", Recurrence: rec}

	from := time.Date(2024, 6, 10, 6, 0, 0, 0, msk)
	sched, err := everyNDaysWindow(slot, from, 3)
	require.NoError(t, err)

	next := from
	for _, day := range []int{10, 12, 14} {
		next = sched.Next(next)
		assert.Equal(t, time.Date(2024, 6, day, 8, 0, 0, 0, msk), next)
		assert.True(t, rec.IsActiveOn(next))
	}
	assert.False(t, rec.IsActiveOn(time.Date(2024, 6, 11, 8, 0, 0, 0, msk)))
}

func TestOnceSchedule(t *testing.T) {
	at := monday.Add(15 * time.Minute)
	s := onceSchedule{at: at}
	assert.Equal(t, at, s.Next(monday))
	assert.True(t, s.Next(at).IsZero())
}

func TestScheduleAndCancel(t *testing.T) {
	s := newTestScheduler(&fakeSender{})
	user := models.User{ID: uuid.New(), TelegramID: 42, NotificationsEnabled: true}
	sup := uuid.New()
	slots := []models.ScheduleSlot{
		{ID: uuid.New(), Time: "08:00", SupplementIDs: []uuid.UUID{sup}},
		{ID: uuid.New(), Time: "21:00", SupplementIDs: []uuid.UUID{sup}, Recurrence: models.SpecificDays(2, 4)},
		{ID: uuid.New(), Time: "10:00", SupplementIDs: []uuid.UUID{sup}, Recurrence: models.EveryNDays(2, monday)},
		{ID: uuid.New(), Time: "12:00"}, // заглушка
		{ID: uuid.New(), Time: "oops", SupplementIDs: []uuid.UUID{sup}},
	}

	require.NoError(t, s.Schedule(user, slots, []models.Supplement{{ID: sup, Name: "Магний"}}))
	assert.Equal(t, 4, s.Entries())

	// повторный вызов заменяет, а не добавляет
	require.NoError(t, s.Schedule(user, slots[:1], nil))
	assert.Equal(t, 1, s.Entries())

	s.Cancel(user.ID)
	assert.Equal(t, 0, s.Entries())
}

func TestScheduleNotificationsDisabled(t *testing.T) {
	s := newTestScheduler(&fakeSender{})
	user := models.User{ID: uuid.New(), NotificationsEnabled: false}
	slots := []models.ScheduleSlot{{ID: uuid.New(), Time: "08:00", SupplementIDs: []uuid.UUID{uuid.New()}}}

	require.NoError(t, s.Schedule(user, slots, nil))
	assert.Equal(t, 0, s.Entries())
}

func TestSnoozeReplacesPrevious(t *testing.T) {
	s := newTestScheduler(&fakeSender{})
	user := models.User{ID: uuid.New(), TelegramID: 7, NotificationsEnabled: true}
	slot := models.ScheduleSlot{ID: uuid.New(), Time: "08:00", SupplementIDs: []uuid.UUID{uuid.New()}}

	require.NoError(t, s.Snooze(user, slot, nil, 15*time.Minute))
	require.NoError(t, s.Snooze(user, slot, nil, 30*time.Minute))
	assert.Equal(t, 1, s.Entries())

	assert.Error(t, s.Snooze(user, slot, nil, 0))

	s.CancelSlot(slot.ID)
	assert.Equal(t, 0, s.Entries())
}

func TestRemindSkipsDoneSlots(t *testing.T) {
	sender := &fakeSender{}
	done := uuid.New()
	s := newTestScheduler(sender, WithStatus(fakeStatus{done: map[uuid.UUID]bool{done: true}}))
	user := models.User{ID: uuid.New(), TelegramID: 42}

	s.remind(context.Background(), reminder{user: user, slot: models.ScheduleSlot{ID: done, Time: "08:00"}})
	assert.Empty(t, sender.sent)

	s.remind(context.Background(), reminder{
		user:        user,
		slot:        models.ScheduleSlot{ID: uuid.New(), Time: "08:00", Context: models.ContextWithBreakfast, Explanation: "С жирной едой"},
		supplements: []string{"Витамин D3 2000 МЕ"},
	})
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "42", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].text, "08:00")
	assert.Contains(t, sender.sent[0].text, "• Витамин D3 2000 МЕ")
	assert.Contains(t, sender.sent[0].text, "💡 С жирной едой")
}

func TestSendWeeklyDigests(t *testing.T) {
	sender := &fakeSender{}
	users := []models.User{
		{TelegramID: 1, Name: "anna", NotificationsEnabled: true},
		{TelegramID: 2, Name: "muted", NotificationsEnabled: false},
		{TelegramID: 3, Name: "broken", NotificationsEnabled: true},
	}
	s := newTestScheduler(sender, WithDigest(fakeDigest{users: users}))

	s.SendWeeklyDigests(context.Background())
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "1", sender.sent[0].to)
	assert.Equal(t, "digest for anna", sender.sent[0].text)
}
