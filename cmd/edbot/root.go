package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbianco/edbot/internal/config"
	"github.com/fbianco/edbot/pkg/log"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "edbot",
	Short: "ED, a personal desktop assistant",
	Long:  `ED is a conversational desktop assistant that learns about you as you chat.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
