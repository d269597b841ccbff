package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/jhoicas/pluckd-api/internal/application/auth"
	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/infrastructure/postgres"
)

var adminFlags struct {
	name     string
	email    string
	password string
}

// storectl create-admin. El registro público siempre crea clientes; los administradores solo se crean aquí.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Crea una cuenta de administrador",
	Long:  "Crea una cuenta ADMIN. La contraseña se toma de --password o de STORECTL_ADMIN_PASSWORD.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := dto.RegisterRequest{
			Name:     adminFlags.name,
			Email:    adminFlags.email,
			Password: adminFlags.password,
		}
		if in.Password == "" {
			in.Password = os.Getenv("STORECTL_ADMIN_PASSWORD")
		}
		if err := validator.New().Struct(in); err != nil {
			return fmt.Errorf("datos inválidos: %w", err)
		}

		ctx := cmd.Context()
		pool, log, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), nil, log)
		user, err := uc.CreateAdmin(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Administrador creado: id=%d email=%s\n", user.ID, user.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.name, "name", "Administrador", "nombre visible")
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "email de acceso")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "contraseña (mínimo 8 caracteres)")
	_ = createAdminCmd.MarkFlagRequired("email")
}
