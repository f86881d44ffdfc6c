package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/ParallelMatter/Pillo-sub000/internal/bot"
	"github.com/ParallelMatter/Pillo-sub000/internal/config"
	"github.com/ParallelMatter/Pillo-sub000/internal/db"
	"github.com/ParallelMatter/Pillo-sub000/internal/logger"
	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"github.com/ParallelMatter/Pillo-sub000/internal/notify"
	"github.com/ParallelMatter/Pillo-sub000/internal/reference"
	"github.com/ParallelMatter/Pillo-sub000/internal/schedule"
	"github.com/ParallelMatter/Pillo-sub000/internal/service"
	"github.com/ParallelMatter/Pillo-sub000/internal/utils"
	"github.com/ParallelMatter/Pillo-sub000/internal/widget"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить бота и планировщик напоминаний",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.L()
		cfg, err := config.Load(log)
		if err != nil {
			return err
		}
		if err := cfg.RequireToken(); err != nil {
			log.Error("Токен бота не задан", zap.Error(err))
			return err
		}

		gdb, err := db.Connect(cfg.DB, log)
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb, log); err != nil {
			return err
		}
		store := db.NewStore(gdb, log)
		idx := reference.Load(cfg.ReferencePath, log)

		var opts []service.Option
		if cfg.WidgetDir != "" {
			sink, err := widget.NewFileSink(cfg.WidgetDir, log)
			if err != nil {
				return err
			}
			opts = append(opts, service.WithWidgetSink(sink))
		}
		svc := service.New(store, idx, cfg.Location(), log, opts...)

		b, err := bot.New(cfg, log)
		if err != nil {
			return err
		}
		bot.Register(b, svc, log)

		sched := notify.NewScheduler(b, cfg.Location(), cfg.ReminderWindow, log,
			notify.WithStatus(svc),
			notify.WithDigest(svc),
		)
		svc.SetNotifier(sched)
		if err := svc.RestoreReminders(cmd.Context()); err != nil {
			log.Warn("Напоминания не восстановлены", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			log.Info("Остановка бота")
			b.Stop()
		}()

		log.Info("Bot started")
		b.Start()
		<-sched.Stop().Done()
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Создать или обновить таблицы в базе",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.L()
		cfg, err := config.Load(log)
		if err != nil {
			return err
		}
		gdb, err := db.Connect(cfg.DB, log)
		if err != nil {
			return err
		}
		return db.Migrate(gdb, log)
	},
}

var searchRefPath string

var searchCmd = &cobra.Command{
	Use:   "search <запрос>",
	Short: "Поиск по справочнику добавок",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := reference.Load(searchRefPath, logger.L())
		results := idx.SearchWithContext(strings.Join(args, " "))
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "Ничего не найдено.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tНАЗВАНИЕ\tСОВПАДЕНИЕ\tТЕРМИНЫ")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Reference.ID, r.Reference.DisplayName(), r.Match, strings.Join(r.MatchedTerms, ", "))
		}
		return w.Flush()
	},
}

var (
	previewMeals   schedule.MealTimes
	previewRefPath string
)

var previewCmd = &cobra.Command{
	Use:   "preview <добавка>[@HH:mm] ...",
	Short: "Показать расписание для списка добавок без базы и бота",
	Long: `Строит расписание так же, как бот, но только для переданных названий.
Суффикс @HH:mm задаёт фиксированное время приёма, например "Креатин@17:30".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := reference.Load(previewRefPath, logger.L())
		sups, err := previewSupplements(idx, args)
		if err != nil {
			return err
		}
		slots, err := schedule.NewEngine(idx).Generate(previewMeals, sups)
		if err != nil {
			return err
		}

		names := make(map[uuid.UUID]string, len(sups))
		for _, s := range sups {
			names[s.ID] = s.Name
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, slot := range slots {
			var list []string
			for _, id := range slot.SupplementIDs {
				list = append(list, names[id])
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", slot.Time, utils.ContextLabel(slot.Context), strings.Join(list, ", "), slot.Explanation)
		}
		return w.Flush()
	},
}

// previewSupplements превращает аргументы CLI в добавки, связывая их со справочником.
func previewSupplements(idx *reference.Index, args []string) ([]models.Supplement, error) {
	sups := make([]models.Supplement, 0, len(args))
	for _, arg := range args {
		name, at, custom := strings.Cut(arg, "@")
		sup := models.Supplement{
			ID:       uuid.New(),
			Name:     strings.TrimSpace(name),
			Category: models.CategoryOther,
			IsActive: true,
		}
		if ref, ok := idx.ByName(sup.Name); ok {
			sup.ReferenceID = ref.ID
			sup.Category = ref.Category
		}
		if custom {
			if _, err := models.ParseClock(at); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			sup.CustomTime = &at
		}
		sups = append(sups, sup)
	}
	return sups, nil
}

func init() {
	searchCmd.Flags().StringVar(&searchRefPath, "reference", "", "путь к справочнику (YAML/JSON), по умолчанию встроенный")

	defaults := schedule.DefaultMealTimes()
	previewCmd.Flags().StringVar(&previewMeals.Breakfast, "breakfast", defaults.Breakfast, "время завтрака")
	previewCmd.Flags().StringVar(&previewMeals.Lunch, "lunch", defaults.Lunch, "время обеда")
	previewCmd.Flags().StringVar(&previewMeals.Dinner, "dinner", defaults.Dinner, "время ужина")
	previewCmd.Flags().BoolVar(&previewMeals.SkipBreakfast, "skip-breakfast", false, "без завтрака")
	previewCmd.Flags().StringVar(&previewRefPath, "reference", "", "путь к справочнику (YAML/JSON), по умолчанию встроенный")
}
