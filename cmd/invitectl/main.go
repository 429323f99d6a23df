package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	adminsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/admins"
	invsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/invitations"
	statssvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/stats"
	"github.com/AndyRamoss/Invitacion-Andy/internal/config"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/database"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type env struct {
	dsn string
	db  *gorm.DB
	cfg *config.Config
}

// open loads config and connects the database once per command.
func (e *env) open() error {
	if e.db != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())
	dsn := cfg.DatabaseURL
	if e.dsn != "" {
		dsn = e.dsn
	}
	db, err := database.Open(dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	e.db, e.cfg = db, cfg
	return nil
}

func (e *env) invitations() *invsvc.Service {
	return &invsvc.Service{
		Store:         &store.InvitationStore{DB: e.db},
		AllowedQuotas: e.cfg.AllowedQuotas,
		PublicBaseURL: e.cfg.PublicBaseURL,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newRootCommand() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "invitectl",
		Short:         "Operator tool for the invitation RSVP service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&e.dsn, "database", "", "Database DSN (defaults to the configured DATABASE_URL)")

	cmd.AddCommand(newSeedAdminsCommand(e))
	cmd.AddCommand(newImportCommand(e))
	cmd.AddCommand(newExportCommand(e))
	cmd.AddCommand(newStatsCommand(e))
	return cmd
}

func newSeedAdminsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admins [email...]",
		Short: "Insert admin e-mails (defaults to BOOTSTRAP_ADMINS); existing admins are kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.open(); err != nil {
				return err
			}
			emails := args
			if len(emails) == 0 {
				emails = e.cfg.BootstrapAdmins
			}
			if len(emails) == 0 {
				return fmt.Errorf("no e-mails given and BOOTSTRAP_ADMINS is empty")
			}
			svc := &adminsvc.Service{Admins: &store.AdminStore{DB: e.db}, Audit: &store.InvitationStore{DB: e.db}}
			n, err := svc.Seed(commandContext(cmd), emails)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d new admin(s)\n", n)
			return nil
		},
	}
}

func newImportCommand(e *env) *cobra.Command {
	var (
		file  string
		actor string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-create invitations from name,email,maxGuests rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			entries := invsvc.ParseBulkRows(string(raw))
			if len(entries) == 0 {
				return fmt.Errorf("no rows found in %s", file)
			}
			if err := e.open(); err != nil {
				return err
			}
			outcomes, err := e.invitations().BulkCreate(commandContext(cmd), entries, actor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, o := range outcomes {
				if o.Success() {
					fmt.Fprintf(out, "ok\t%s\t%s\t%s\n", o.Code, o.Entry.Name, o.Link)
				} else {
					fmt.Fprintf(out, "fail\t%d\t%s\t%s\n", o.Index+1, o.Entry.Name, o.Error)
				}
			}
			sum := invsvc.Summarize(outcomes)
			fmt.Fprintf(out, "total %d, successful %d, failed %d\n", sum.Total, sum.Successful, sum.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to a file with one name,email,maxGuests row per line")
	cmd.Flags().StringVar(&actor, "actor", "", "E-mail recorded as the creator in the audit log")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newExportCommand(e *env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all invitations as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.open(); err != nil {
				return err
			}
			rows, err := e.invitations().ExportAll(commandContext(cmd))
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return invsvc.WriteCSV(cmd.OutOrStdout(), rows)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := invsvc.WriteCSV(f, rows); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&output, "out", "", "Destination CSV file (stdout when empty)")
	return cmd
}

func newStatsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print RSVP counters as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.open(); err != nil {
				return err
			}
			s, err := (&statssvc.Service{Store: &store.InvitationStore{DB: e.db}}).Compute(commandContext(cmd))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}
}
