package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/fbianco/edbot/internal/actions"
	"github.com/fbianco/edbot/internal/config"
	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/internal/providers/llm"
	"github.com/fbianco/edbot/internal/service/dialog"
	"github.com/fbianco/edbot/internal/service/extractor"
	"github.com/fbianco/edbot/internal/service/reminder"
	"github.com/fbianco/edbot/internal/service/router"
	"github.com/fbianco/edbot/internal/storage/sqlite"
	"github.com/fbianco/edbot/internal/transport/cli"
	"github.com/fbianco/edbot/internal/voice"
	"github.com/fbianco/edbot/pkg/log"
	"github.com/fbianco/edbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	cfg := config.NewAppConfig(ctx)

	// Storage
	db, err := initStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	profileRepo := sqlite.NewProfileRepo(db)
	convRepo := sqlite.NewConversationRepo(db)

	// Collaborators
	completer, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	runner := actions.NewRunner(cfg.RuntimePath)
	speaker, transcriber := initVoice(cfg)

	// Turn pipeline
	svc := dialog.NewService(
		dialog.Config{
			SessionID:         uuid.NewString(),
			WindowSize:        cfg.HistoryWindowSize,
			MaxContextTokens:  cfg.MaxContextTokens,
			CompletionTimeout: cfg.CompletionTimeout,
		},
		profileRepo,
		convRepo,
		extractor.New(profileRepo),
		router.New(runner),
		completer,
	)

	// Carry the previous conversation's tail into the new session's window.
	if prev, err := convRepo.LatestSessionID(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to find previous session")
	} else if prev != "" {
		if err := svc.Resume(ctx, prev); err != nil {
			logger.Warn().Err(err).Msg("failed to resume conversation window")
		}
	}

	// Background reminders
	rem := reminder.New(profileRepo, runner, speaker)
	rem.Interval = cfg.ReminderInterval
	services = append(services, rem)

	// Transport
	repl, err := cli.NewReadLine(cfg, svc, speaker, transcriber)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize chat transport")
	}
	services = append(services, repl)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, error) {
	return sqlite.NewDB(ctx, cfg.GetDatabasePath())
}

func initVoice(cfg *config.AppConfig) (core.Speaker, core.Transcriber) {
	if !cfg.EnableVoice {
		return voice.NullSpeaker{}, voice.NullTranscriber{}
	}
	var transcriber core.Transcriber = voice.NullTranscriber{}
	if cfg.ListenCommand != "" {
		transcriber = voice.NewExecTranscriber(cfg.ListenCommand)
	}
	return voice.NewExecSpeaker(cfg.SpeechCommand), transcriber
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
