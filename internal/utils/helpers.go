package utils

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/adherence"
	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"
)

// MaxCallbackData: лимит Telegram на callback_data вместе с префиксом telebot "\f<unique>|".
const MaxCallbackData = 64

// Уникальные ключи inline-кнопок
const (
	BtnSlotTaken   = "slot_taken"
	BtnSlotSkip    = "slot_skip"
	BtnSlotLater   = "slot_later"
	BtnSuppTaken   = "supp_taken"
	BtnSuppSkip    = "supp_skip"
	BtnSuppUnmark  = "supp_unmark"
	BtnSuppDetail  = "supp_detail"
	BtnSuppPause   = "supp_pause"
	BtnSuppRemove  = "supp_remove"
	BtnSuppConfirm = "supp_remove_yes"
	BtnCategory    = "category"
	BtnMode        = "time_mode"
	BtnWeekday     = "select_day"
	BtnWeekdayDone = "select_day_done"
	BtnRepeat      = "repeat"
)

// Клавиатура с кнопкой "Отмена" для этапов добавления
func CancelKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	btnCancel := menu.Text("❌ Отмена")
	menu.Reply(menu.Row(btnCancel))
	return menu
}

// Возвращает главное меню
func MainMenuKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	btnAdd := menu.Text("➕ Добавить")
	btnList := menu.Text("📃 Список")
	btnToday := menu.Text("📅 Сегодня")
	btnStats := menu.Text("📊 Статистика")
	btnHelp := menu.Text("❓ Помощь")
	menu.Reply(menu.Row(btnAdd, btnList, btnToday), menu.Row(btnStats, btnHelp))
	return menu
}

func SendMainMenu(c tele.Context) error {
	return c.Send("📋 Главное меню:\n\n"+
		"/add – добавить добавку\n"+
		"/list – список добавок\n"+
		"/today – приёмы на сегодня\n"+
		"/schedule – расписание\n"+
		"/stats – статистика\n"+
		"/help – помощь", MainMenuKeyboard())
}

func CloseMenu() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// Кнопки под напоминанием: принять весь слот, напомнить позже, пропустить.
func ReminderKeyboard(slotID string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	btnTaken := markup.Data("✅ Принял(а)", BtnSlotTaken, slotID)
	btnLater := markup.Data("⏰ Через 30 мин", BtnSlotLater, slotID)
	btnSkip := markup.Data("⏭ Пропустить", BtnSlotSkip, slotID)
	markup.Inline(markup.Row(btnTaken), markup.Row(btnLater, btnSkip))
	return markup
}

// Callback-данные вида "a|b"
func JoinData(parts ...string) string {
	return strings.Join(parts, "|")
}

func SplitData(data string, n int) ([]string, bool) {
	parts := strings.SplitN(data, "|", n)
	return parts, len(parts) == n
}

// ShortID кодирует uuid в 22 символа, чтобы в кнопку влезали два id.
func ShortID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}

func ParseShortID(s string) (uuid.UUID, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.FromBytes(b)
}

// CallbackDataLen: сколько байт займёт callback_data кнопки после сборки telebot.
func CallbackDataLen(btn tele.InlineButton) int {
	if btn.Unique == "" {
		return len(btn.Data)
	}
	n := 1 + len(btn.Unique)
	if btn.Data != "" {
		n += 1 + len(btn.Data)
	}
	return n
}

func FormatDateRu(t time.Time) string {
	months := []string{"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"}
	day := t.Day()
	month := months[int(t.Month())-1]
	year := t.Year()
	return fmt.Sprintf("%d %s %d", day, month, year)
}

var contextLabels = map[models.MealContext]string{
	models.ContextEmptyStomach:  "натощак",
	models.ContextWithBreakfast: "с завтраком",
	models.ContextWithLunch:     "с обедом",
	models.ContextWithDinner:    "с ужином",
	models.ContextBetweenMeals:  "между приёмами пищи",
	models.ContextBedtime:       "перед сном",
}

func ContextLabel(ctx models.MealContext) string {
	if l, ok := contextLabels[ctx]; ok {
		return l
	}
	return string(ctx)
}

// Нумерация 1 = Вс ... 7 = Сб
var weekdayShort = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func WeekdayShort(d int) string {
	if d < 1 || d > 7 {
		return strconv.Itoa(d)
	}
	return weekdayShort[d-1]
}

func RecurrenceLabel(r models.Recurrence) string {
	switch r.Kind {
	case models.RecurrenceSpecificDays:
		names := make([]string, 0, len(r.Weekdays))
		for _, d := range r.Weekdays {
			names = append(names, WeekdayShort(d))
		}
		return strings.Join(names, ", ")
	case models.RecurrenceEveryNDays:
		return fmt.Sprintf("раз в %d дн.", r.Interval)
	case models.RecurrenceWeekly:
		return "по " + WeekdayShort(r.Weekday)
	default:
		return "ежедневно"
	}
}

var statusEmoji = map[adherence.DayStatus]string{
	adherence.StatusComplete: "🟩",
	adherence.StatusPartial:  "🟨",
	adherence.StatusMissed:   "🟥",
	adherence.StatusToday:    "⬜",
	adherence.StatusFuture:   "▫️",
}

func StatusEmoji(s adherence.DayStatus) string {
	return statusEmoji[s]
}

// FormatWeek строит полоску прогресса и подпись с днями недели.
func FormatWeek(days []adherence.DayStat) string {
	var bar, labels strings.Builder
	complete := 0
	for _, d := range days {
		bar.WriteString(StatusEmoji(d.Status))
		labels.WriteString(WeekdayShort(models.WeekdayOf(d.Date)))
		labels.WriteString(" ")
		if d.Status == adherence.StatusComplete {
			complete++
		}
	}
	return fmt.Sprintf("%s\n%s\nВыполнено дней: %d из %d", bar.String(), strings.TrimSpace(labels.String()), complete, len(days))
}

// FormatMonth: календарная сетка месяца, неделя с понедельника.
func FormatMonth(days []adherence.DayStat) string {
	if len(days) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Пн Вт Ср Чт Пт Сб Вс\n")
	// сдвиг первого дня: Go считает воскресенье нулём
	lead := (int(days[0].Date.Weekday()) + 6) % 7
	for i := 0; i < lead; i++ {
		b.WriteString("   ")
	}
	for i, d := range days {
		b.WriteString(StatusEmoji(d.Status))
		if (lead+i+1)%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " \n")
}
