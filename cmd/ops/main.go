// Command ops agrupa tareas de operación sobre PostgreSQL: migraciones, vencimiento
// de facturas y emisión de tokens de arranque.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/billing"
	"github.com/jhoicas/Gestion-api/internal/domain/permission"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/audit"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestion-api/pkg/config"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "ops",
	Short:         "Tareas de operación de Gestion API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var jsonOutput bool

func main() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "salida JSON")
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func registerCommands() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(invoicesCmd())
	rootCmd.AddCommand(tokenCmd())
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Output: os.Stderr})
	return cfg, log, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "migrate", Short: "Migraciones del esquema"}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplicar migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *postgres.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(m)
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revertir migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps debe ser >= 1")
			}
			return withMigrator(func(m *postgres.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				return printVersion(m)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "cantidad de migraciones a revertir")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Versión actual del esquema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(printVersion)
		},
	})
	return cmd
}

func withMigrator(fn func(*postgres.Migrator) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func printVersion(m *postgres.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
	return nil
}

func invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "invoices", Short: "Procesos de facturación"}

	var asOf string
	overdue := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Marcar como vencidas las facturas SENT/PARTIAL con fecha de vencimiento pasada",
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff := time.Now().UTC()
			if asOf != "" {
				t, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("--as-of inválido (YYYY-MM-DD): %w", err)
				}
				cutoff = t
			}
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			sink := audit.NewSink(postgres.NewAuditLogRepository(pool), log.Component("audit"), nil)
			overrides := postgres.NewPermissionOverrideRepository(pool)
			users := postgres.NewUserRepository(pool)
			uc := billing.NewUseCase(
				postgres.NewTxRunner(pool),
				postgres.NewInvoiceRepository(pool),
				postgres.NewPaymentRepository(pool),
				authz.NewService(permission.NewGate(nil), overrides, users, sink),
				nil, sink, cfg.Ledger.MaxRetries, log.Component("billing"),
			)
			res, err := uc.MarkOverdue(ctx, cutoff)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(res)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Corte", "Revisadas", "Vencidas", "Omitidas"})
			tw.AppendRow(table.Row{cutoff.Format(time.DateOnly), res.Checked, res.Marked, len(res.Skipped)})
			tw.Render()
			for _, id := range res.Skipped {
				fmt.Println("omitida:", id)
			}
			return nil
		},
	}
	overdue.Flags().StringVar(&asOf, "as-of", "", "fecha de corte YYYY-MM-DD (por defecto, ahora)")
	cmd.AddCommand(overdue)
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "token", Short: "Tokens de arranque"}

	var userID string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Emitir un token de acceso para un usuario existente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user requerido")
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET requerido")
			}
			ctx := cmdContext(cmd)
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			issuer := auth.NewTokenIssuer(postgres.NewUserRepository(pool), auth.JWTConfig{
				Secret: cfg.JWT.Secret,
				TTL:    cfg.JWT.TTL(),
				Issuer: cfg.JWT.Issuer,
			})
			token, user, err := issuer.Issue(ctx, userID)
			if err != nil {
				return err
			}
			if !jsonOutput {
				fmt.Println(token)
				return nil
			}
			return printJSON(map[string]string{
				"token":      token,
				"user_id":    user.ID,
				"company_id": user.CompanyID,
				"role":       string(user.Role),
			})
		},
	}
	issue.Flags().StringVar(&userID, "user", "", "ID del usuario")
	cmd.AddCommand(issue)
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
