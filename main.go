package main

import (
	"fmt"
	"os"

	"github.com/ParallelMatter/Pillo-sub000/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dailydose",
	Short: "Telegram-бот: расписание приёма добавок и напоминания",
	Long: `dailydose раскладывает добавки пользователя по времени дня с учётом еды
и несовместимых сочетаний, напоминает о приёме и считает серию дней.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	log := logger.L()
	defer log.Sync()
	log.Info("Инициализация логгера успешна")

	rootCmd.AddCommand(serveCmd, migrateCmd, searchCmd, previewCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
