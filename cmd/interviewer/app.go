package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/remaimber-it/interviewer/internal/completion"
	"github.com/remaimber-it/interviewer/internal/detector"
	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/domain/vocabulary"
	"github.com/remaimber-it/interviewer/internal/generator"
	"github.com/remaimber-it/interviewer/internal/infrastructure/config"
	"github.com/remaimber-it/interviewer/internal/judge"
	"github.com/remaimber-it/interviewer/internal/rotator"
	"github.com/remaimber-it/interviewer/internal/service"
	"github.com/remaimber-it/interviewer/internal/store"
	"github.com/remaimber-it/interviewer/internal/textextract"
)

// app is the wired dependency graph shared by every command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	bank   *questionbank.QuestionBank
	svc    *service.InterviewService
	db     *store.SQLiteStore // nil when DB_PATH is empty
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// buildApp wires every component from cfg. A malformed question bank is
// fatal; an unreachable model only disables the AI paths.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	// ── Question bank ───────────────────────────────────────────────
	bank, err := questionbank.LoadFile(cfg.QuestionBankPath)
	if err != nil {
		return nil, fmt.Errorf("load question bank %s: %w", cfg.QuestionBankPath, err)
	}
	logger.Info("question bank loaded", "path", cfg.QuestionBankPath, "skills", bank.Len())

	overrides := map[string]string{}
	if cfg.VocabNodeSkill != "" {
		overrides["node"] = cfg.VocabNodeSkill
	}
	vocab := vocabulary.New(bank, vocabulary.WithOverrides(overrides))

	// ── Completion provider ─────────────────────────────────────────
	client, err := newCompletionClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var gate *completion.Gate
	if client != nil {
		gate = completion.NewGate(ctx, client, logger)
	} else {
		logger.Info("completion provider disabled")
	}

	// ── Persistence ─────────────────────────────────────────────────
	var db *store.SQLiteStore
	sinks := judge.MultiSink{}
	if cfg.AuditLogPath != "" {
		fileSink, err := judge.NewFileSink(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		sinks = append(sinks, fileSink)
	}
	if cfg.DBPath != "" {
		db, err = store.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
		}
		sinks = append(sinks, db)
	}

	// ── Pipeline ────────────────────────────────────────────────────
	var extractor textextract.Extractor
	if cfg.TikaURL != "" {
		tika := textextract.NewTika(cfg.TikaURL)
		extractor = textextract.NewRouter(tika, tika)
	} else {
		extractor = textextract.NewRouter(textextract.PDF{}, nil)
	}

	deps := service.Deps{
		Bank:      bank,
		Extractor: extractor,
		Detector: detector.New(bank, vocab, gate, detector.Config{
			AILevels: cfg.DetectAILevels,
		}, logger),
		Generator: generator.New(bank, rotator.New(rotator.WithWindow(cfg.RotationWindow)), gate, generator.Config{
			IncludeSolutions: cfg.IncludeSolutions,
			SolutionWorkers:  cfg.SolutionWorkers,
		}, logger),
		Judge: judge.New(sinks, logger),
		Gate:  gate,
	}
	// A nil *SQLiteStore must not become a non-nil store.Store.
	if db != nil {
		deps.Store = db
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		bank:   bank,
		svc:    service.NewInterviewService(deps, logger),
		db:     db,
	}, nil
}

func newCompletionClient(ctx context.Context, cfg *config.Config) (completion.Client, error) {
	switch cfg.LLMProvider {
	case "openai", "ollama", "":
		return completion.NewOpenAIClient(cfg.LLMURL, cfg.LLMModel, cfg.LLMTimeout), nil
	case "gemini":
		c, err := completion.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return c, nil
	case "none":
		return nil, nil
	default:
		return nil, errors.New("LLM_PROVIDER must be one of openai, gemini, none")
	}
}

// Close waits for background saves and releases the database.
func (a *app) Close() {
	a.svc.Wait()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", "error", err)
		}
	}
}
