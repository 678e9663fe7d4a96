package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string        `env:"SERVER_ADDRESS" envDefault:":8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"info"`

	// Completion provider: "openai" (Ollama, LM Studio), "gemini" or "none".
	LLMProvider  string        `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMURL       string        `env:"LLM_URL" envDefault:"http://localhost:11434"`
	LLMModel     string        `env:"LLM_MODEL" envDefault:"mistral"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	GeminiModel  string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	QuestionBankPath string `env:"QUESTION_BANK_PATH" envDefault:"data/skill_question_bank.json"`
	DBPath           string `env:"DB_PATH" envDefault:"interviewer.db"` // empty disables analysis persistence
	AuditLogPath     string `env:"AUDIT_LOG_PATH" envDefault:"trace/judge.jsonl"`
	TikaURL          string `env:"TIKA_URL"`

	CORSOrigins     []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
	RateLimitPerMin int      `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	MaxUploadMB     int64    `env:"MAX_UPLOAD_MB" envDefault:"10"`

	IncludeSolutions bool   `env:"INCLUDE_SOLUTIONS" envDefault:"false"`
	SolutionWorkers  int    `env:"GEN_SOLUTION_WORKERS" envDefault:"4"`
	DetectAILevels   bool   `env:"DETECT_AI_LEVELS" envDefault:"true"`
	VocabNodeSkill   string `env:"VOCAB_NODE_SKILL" envDefault:"nodejs"`
	RotationWindow   int    `env:"ROTATION_WINDOW" envDefault:"10"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.CORSOrigins = compact(cfg.CORSOrigins)

	for name, n := range map[string]int64{
		"RATE_LIMIT_PER_MIN":   int64(cfg.RateLimitPerMin),
		"MAX_UPLOAD_MB":        cfg.MaxUploadMB,
		"GEN_SOLUTION_WORKERS": int64(cfg.SolutionWorkers),
		"ROTATION_WINDOW":      int64(cfg.RotationWindow),
	} {
		if n < 0 {
			return nil, fmt.Errorf("config: %s must not be negative, got %d", name, n)
		}
	}

	return &cfg, nil
}

// MaxUploadBytes is the resume upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// compact trims list items and drops empty ones.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
