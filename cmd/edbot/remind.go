package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fbianco/edbot/internal/config"
	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/internal/storage/sqlite"
	"github.com/fbianco/edbot/pkg/log"
)

var (
	remindTitle  string
	remindDesc   string
	remindAt     string
	remindNotify bool
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage appointment reminders",
}

var remindAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule an appointment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		moment, err := time.ParseInLocation("2006-01-02 15:04", remindAt, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at value %q, expected YYYY-MM-DD HH:MM: %w", remindAt, err)
		}

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer closeDatabase(ctx, db)

		repo := sqlite.NewProfileRepo(db)
		id, err := repo.AddAppointment(ctx, core.Appointment{
			Title:       remindTitle,
			Description: remindDesc,
			Moment:      moment,
			Notify:      remindNotify,
		})
		if err != nil {
			return fmt.Errorf("failed to save appointment: %w", err)
		}

		cmd.Printf("Scheduled #%d: %s at %s\n", id, remindTitle, moment.Format("Mon 2 Jan 15:04"))
		return nil
	},
}

var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer closeDatabase(ctx, db)

		repo := sqlite.NewProfileRepo(db)
		appts, err := repo.NextAppointments(ctx, 20)
		if err != nil {
			return fmt.Errorf("failed to list appointments: %w", err)
		}

		if len(appts) == 0 {
			cmd.Println("No upcoming appointments.")
			return nil
		}
		for _, a := range appts {
			marker := " "
			if a.Notify {
				marker = "*"
			}
			cmd.Printf("%s #%-4d %s  %s\n", marker, a.ID, a.Moment.Local().Format("Mon 2 Jan 15:04"), a.Title)
		}
		return nil
	},
}

func openDatabase(ctx context.Context) (*sql.DB, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, err
	}
	cfg := config.NewAppConfig(ctx)

	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func closeDatabase(ctx context.Context, db *sql.DB) {
	if err := db.Close(); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to close database")
	}
}

func init() {
	remindAddCmd.Flags().StringVar(&remindTitle, "title", "", "appointment title")
	remindAddCmd.Flags().StringVar(&remindDesc, "desc", "", "longer description")
	remindAddCmd.Flags().StringVar(&remindAt, "at", "", "moment as YYYY-MM-DD HH:MM (local time)")
	remindAddCmd.Flags().BoolVar(&remindNotify, "notify", true, "announce this appointment when it is near")
	_ = remindAddCmd.MarkFlagRequired("title")
	_ = remindAddCmd.MarkFlagRequired("at")

	remindCmd.AddCommand(remindAddCmd)
	remindCmd.AddCommand(remindListCmd)
	rootCmd.AddCommand(remindCmd)
}
