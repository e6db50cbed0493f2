package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/internal/storage/sqlite"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show everything ED currently knows about you",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer closeDatabase(ctx, db)

		repo := sqlite.NewProfileRepo(db)
		snap, err := repo.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		printSnapshot(cmd, snap)
		return nil
	},
}

func printSnapshot(cmd *cobra.Command, snap core.Snapshot) {
	cmd.Println("Facts:")
	keys := make([]string, 0, len(snap.Info))
	for k := range snap.Info {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Printf("  %-20s %s\n", k, snap.Info[core.FactKey(k)])
	}

	if len(snap.Interests) > 0 {
		cmd.Println("Interests:")
		for _, it := range snap.Interests {
			cmd.Printf("  %-20s level %d\n", it.Topic, it.Level)
		}
	}

	if len(snap.Programming) > 0 {
		cmd.Println("Programming:")
		for _, p := range snap.Programming {
			switch {
			case p.Language != "" && p.Framework != "":
				cmd.Printf("  %s (%s)\n", p.Language, p.Framework)
			case p.Language != "":
				cmd.Printf("  %s\n", p.Language)
			default:
				cmd.Printf("  (%s)\n", p.Framework)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
