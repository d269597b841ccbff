// storectl tareas administrativas de la tienda: migraciones, alta de administradores
// y carga del catálogo desde CSV.
//
// Uso:
//
//	go run ./cmd/storectl migrate
//	go run ./cmd/storectl create-admin --name "Ana" --email ana@pluckd.app
//	go run ./cmd/storectl seed-products --file productos.csv --encoding latin1
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/pluckd-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pluckd-api/pkg/config"
	"github.com/jhoicas/pluckd-api/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "storectl",
	Short:        "Herramientas administrativas de Pluckd",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(seedProductsCmd)
}

// bootDB carga la configuración de base de datos y abre el pool. El llamador cierra el pool.
// No exige JWT_SECRET: ningún comando emite sesiones.
func bootDB(ctx context.Context) (*pgxpool.Pool, *logger.Logger, error) {
	cfg, err := config.LoadForTools()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel})
	pool, err := postgres.Connect(ctx, cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}
	return pool, log, nil
}

// storectl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, log, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		return postgres.Migrate(ctx, pool, log)
	},
}
