package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ggd-contact/internal/config"
	"ggd-contact/internal/db"
	"ggd-contact/internal/repository"
	"ggd-contact/internal/service"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Gestiona cuentas del personal",
}

var staffCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crea una cuenta del personal",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")

		logger := newLogger()
		defer logger.Sync()

		cfg, err := config.LoadDatabaseConfig()
		if err != nil {
			return err
		}
		pool, err := db.NewPool(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := service.NewStaffService(logger, repository.NewPgStaffRepository(pool))
		staff, err := svc.CreateStaff(cmd.Context(), email, name, password)
		if err != nil {
			return err
		}
		logger.Info("staff created", zap.String("staff_id", staff.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", staff.ID, staff.Email)
		return nil
	},
}

func init() {
	staffCreateCmd.Flags().String("email", "", "staff e-mail address")
	staffCreateCmd.Flags().String("name", "", "display name")
	staffCreateCmd.Flags().String("password", "", "initial password (min 10 characters)")
	_ = staffCreateCmd.MarkFlagRequired("email")
	_ = staffCreateCmd.MarkFlagRequired("password")
	staffCmd.AddCommand(staffCreateCmd)
}
