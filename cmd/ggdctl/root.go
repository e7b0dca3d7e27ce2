package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "ggdctl",
	Short: "Herramientas de operación para ggd-contact",
	Long:  "ggdctl clasifica contactos sin servidor, aplica migraciones y provisiona cuentas del personal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Printf("warning: loading .env: %v", err)
		}
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(risksCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(staffCmd)
}

func newLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
