package handlers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

// Шаги мастера добавления
const (
	stepName = iota + 1
	stepDosage
	stepCategory
	stepMode
	stepTime
	stepRepeat
	stepWeekdays
	stepInterval
)

const cancelText = "❌ Отмена"

var (
	addStates = struct {
		sync.RWMutex
		m map[int64]*AddState
	}{m: make(map[int64]*AddState)}

	categoryLabels = map[models.Category]string{
		models.CategoryVitaminFatSoluble:   "💛 Жирорастворимый витамин",
		models.CategoryVitaminWaterSoluble: "💧 Водорастворимый витамин",
		models.CategoryMineral:             "🪨 Минерал",
		models.CategoryOmega:               "🐟 Омега",
		models.CategoryProbiotic:           "🦠 Пробиотик",
		models.CategoryHerbal:              "🌿 Травы",
		models.CategoryAminoAcid:           "💪 Аминокислота",
		models.CategoryOther:               "📦 Другое",
	}

	// Порядок кнопок дней: с понедельника
	weekdayOrder = []int{2, 3, 4, 5, 6, 7, 1}
)

type AddState struct {
	Step    int
	Request service.AddSupplementRequest
	// найдена в справочнике: категорию не спрашиваем
	Known  bool
	Weekly bool
	Days   map[int]bool // 1 = Вс ... 7 = Сб
}

func getAddState(userID int64) (*AddState, bool) {
	addStates.RLock()
	defer addStates.RUnlock()
	state, ok := addStates.m[userID]
	return state, ok
}

func dropAddState(userID int64) {
	addStates.Lock()
	delete(addStates.m, userID)
	addStates.Unlock()
}

func categoryMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for i := 0; i < len(models.Categories); i += 2 {
		row := tele.Row{markup.Data(categoryLabels[models.Categories[i]], utils.BtnCategory, string(models.Categories[i]))}
		if i+1 < len(models.Categories) {
			c := models.Categories[i+1]
			row = append(row, markup.Data(categoryLabels[c], utils.BtnCategory, string(c)))
		}
		rows = append(rows, row)
	}
	markup.Inline(rows...)
	return markup
}

func modeMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🤖 Подобрать автоматически", utils.BtnMode, "auto")),
		markup.Row(markup.Data("🕒 Своё время", utils.BtnMode, "custom")),
	)
	return markup
}

func repeatMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Каждый день", utils.BtnRepeat, "daily"), markup.Data("По дням недели", utils.BtnRepeat, "days")),
		markup.Row(markup.Data("Раз в N дней", utils.BtnRepeat, "every"), markup.Data("Раз в неделю", utils.BtnRepeat, "weekly")),
	)
	return markup
}

// --- Создание клавиатуры дней недели ---
func createWeekdayInlineMarkup(selected map[int]bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var row []tele.Btn
	for _, d := range weekdayOrder {
		label := "✖️ " + utils.WeekdayShort(d)
		if selected[d] {
			label = "✅ " + utils.WeekdayShort(d)
		}
		row = append(row, markup.Data(label, utils.BtnWeekday, strconv.Itoa(d)))
	}
	doneBtn := markup.Data("Готово", utils.BtnWeekdayDone)
	markup.Inline(
		markup.Row(row[0], row[1], row[2]),
		markup.Row(row[3], row[4], row[5]),
		markup.Row(row[6], doneBtn),
	)
	return markup
}

func AddHandler(log *zap.Logger) func(c tele.Context) error {
	log.Info("AddHandler initialized")
	return func(c tele.Context) error {
		addStates.Lock()
		addStates.m[c.Sender().ID] = &AddState{Step: stepName}
		addStates.Unlock()

		return c.Send("🩺 Введи название добавки, которую хочешь добавить:", utils.CancelKeyboard())
	}
}

func AddTextHandler(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		text := strings.TrimSpace(c.Text())

		// Команда сбрасывает добавление
		if strings.HasPrefix(text, "/") {
			dropAddState(userID)
			return nil
		}

		state, ok := getAddState(userID)
		if !ok {
			return utils.SendMainMenu(c)
		}
		if text == cancelText {
			dropAddState(userID)
			_ = c.Send("Добавление отменено.", utils.CloseMenu())
			return utils.SendMainMenu(c)
		}

		switch state.Step {
		case stepName:
			if text == "" {
				return c.Send("Название не может быть пустым.")
			}
			state.Request.Name = text
			state.Step = stepDosage
			if ref, found := svc.Index().ByName(text); found {
				state.Known = true
				_ = c.Send(fmt.Sprintf("📚 Нашёл в справочнике: %s", ref.DisplayName()))
			}
			return c.Send("💊 Укажи дозировку, например '2000 МЕ' или '400 мг'. Отправь '-', если не важно.")

		case stepDosage:
			if text != "-" {
				fields := strings.Fields(text)
				if len(fields) > 0 {
					state.Request.Dosage = fields[0]
					state.Request.Unit = strings.Join(fields[1:], " ")
				}
			}
			if state.Known {
				state.Step = stepMode
				return c.Send("🕒 Когда принимать?", modeMarkup())
			}
			state.Step = stepCategory
			return c.Send("📂 К какой категории относится добавка?", categoryMarkup())

		case stepTime:
			if _, err := models.ParseClock(text); err != nil {
				return c.Send("❌ Неверный формат времени. Используй HH:MM, например 08:30.")
			}
			state.Request.CustomTime = text
			state.Step = stepRepeat
			return c.Send("🔁 Как часто принимать?", repeatMarkup())

		case stepInterval:
			n, err := strconv.Atoi(text)
			if err != nil || n < 2 || n > 60 {
				return c.Send("Введи число дней от 2 до 60.")
			}
			state.Request.Recurrence = models.EveryNDays(n, time.Now().In(svc.Location()))
			return saveSupplement(c, svc, log, state)

		case stepCategory, stepMode, stepRepeat, stepWeekdays:
			return c.Send("👆 Выбери вариант кнопкой выше.")
		}
		return nil
	}
}

func HandleCategoryCallback(log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		state, ok := getAddState(c.Sender().ID)
		if !ok || state.Step != stepCategory {
			return c.Respond(&tele.CallbackResponse{Text: "Нет активного добавления"})
		}
		category := models.NormalizeCategory(c.Data())
		state.Request.Category = string(category)
		state.Step = stepMode

		if err := c.Edit("📂 Категория: "+categoryLabels[category], &tele.ReplyMarkup{}); err != nil {
			log.Warn("Не удалось убрать inline-кнопки", zap.Error(err))
		}
		_ = c.Respond()
		return c.Send("🕒 Когда принимать?", modeMarkup())
	}
}

func HandleModeCallback(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		state, ok := getAddState(c.Sender().ID)
		if !ok || state.Step != stepMode {
			return c.Respond(&tele.CallbackResponse{Text: "Нет активного добавления"})
		}
		_ = c.Respond()

		if c.Data() == "custom" {
			state.Step = stepTime
			_ = c.Edit("🕒 Своё время", &tele.ReplyMarkup{})
			return c.Send("Во сколько принимать? Формат HH:MM, например 08:30.")
		}
		_ = c.Edit("🤖 Время подберу автоматически", &tele.ReplyMarkup{})
		return saveSupplement(c, svc, log, state)
	}
}

func HandleRepeatCallback(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		state, ok := getAddState(c.Sender().ID)
		if !ok || state.Step != stepRepeat {
			return c.Respond(&tele.CallbackResponse{Text: "Нет активного добавления"})
		}
		_ = c.Respond()

		switch c.Data() {
		case "days", "weekly":
			state.Step = stepWeekdays
			state.Weekly = c.Data() == "weekly"
			state.Days = make(map[int]bool)
			msg := "Выбери дни недели и нажми 'Готово'."
			if state.Weekly {
				msg = "Выбери день недели и нажми 'Готово'."
			}
			return c.Edit(msg, createWeekdayInlineMarkup(state.Days))
		case "every":
			state.Step = stepInterval
			_ = c.Edit("🔁 Раз в N дней", &tele.ReplyMarkup{})
			return c.Send("Через сколько дней повторять? Например, 2 — через день.")
		default:
			state.Request.Recurrence = models.Daily()
			_ = c.Edit("🔁 Каждый день", &tele.ReplyMarkup{})
			return saveSupplement(c, svc, log, state)
		}
	}
}

// --- Callback-хендлер для дней недели ---
func HandleSelectDayCallback(svc *service.Service, log *zap.Logger) func(c tele.Context) error {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		addStates.Lock()
		state, ok := addStates.m[userID]
		if !ok || state.Step != stepWeekdays {
			addStates.Unlock()
			return c.Respond(&tele.CallbackResponse{Text: "Нет активного добавления"})
		}

		switch c.Callback().Unique {
		case utils.BtnWeekdayDone:
			var days []int
			for d := range state.Days {
				days = append(days, d)
			}
			addStates.Unlock()
			if len(days) == 0 {
				return c.Respond(&tele.CallbackResponse{Text: "Выбери хотя бы один день"})
			}
			sort.Ints(days)
			if state.Weekly {
				state.Request.Recurrence = models.Weekly(days[0])
			} else {
				state.Request.Recurrence = models.SpecificDays(days...)
			}
			_ = c.Respond()
			_ = c.Edit("🔁 "+utils.RecurrenceLabel(state.Request.Recurrence), &tele.ReplyMarkup{})
			return saveSupplement(c, svc, log, state)
		default:
			day, err := strconv.Atoi(c.Data())
			if err != nil || day < 1 || day > 7 {
				addStates.Unlock()
				return c.Respond(&tele.CallbackResponse{Text: "Некорректный день."})
			}
			switch {
			case state.Days[day]:
				delete(state.Days, day)
			case state.Weekly:
				state.Days = map[int]bool{day: true}
			default:
				state.Days[day] = true
			}
			markup := createWeekdayInlineMarkup(state.Days)
			addStates.Unlock()
			_ = c.Respond()
			return c.Edit(markup)
		}
	}
}

func saveSupplement(c tele.Context, svc *service.Service, log *zap.Logger, state *AddState) error {
	userID := c.Sender().ID
	dropAddState(userID)

	ctx := context.Background()
	sup, err := svc.AddSupplement(ctx, userID, state.Request)
	if err != nil {
		log.Warn("Не удалось сохранить добавку", zap.Int64("telegram_id", userID), zap.Error(err))
		_ = c.Send("Не получилось сохранить добавку, попробуй ещё раз: /add", utils.CloseMenu())
		return utils.SendMainMenu(c)
	}
	log.Info("Добавка успешно сохранена", zap.Int64("telegram_id", userID), zap.String("supplement_id", sup.ID.String()))

	msg := "✅ Добавка " + sup.Name + " сохранена!"
	slots, err := svc.Schedule(ctx, userID)
	if err == nil {
		for _, s := range slots {
			if s.Slot.Contains(sup.ID) {
				msg += fmt.Sprintf("\n🕒 Принимать в %s, %s.", s.Slot.Time, utils.ContextLabel(s.Slot.Context))
				if s.Slot.Explanation != "" {
					msg += "\n💡 " + s.Slot.Explanation
				}
				break
			}
		}
	}
	_ = c.Send(msg, utils.CloseMenu())
	return utils.SendMainMenu(c)
}
