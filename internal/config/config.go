// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Storage
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	//AI backend
	OpenAIAPIKey   string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `yaml:"openai_base_url"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`

	//Job sources
	GithubRepos []string `yaml:"github_repos"`

	//Matching
	MatchThreshold float64 `yaml:"match_threshold"`

	//Candidate data
	ResumePath  string `yaml:"resume_path"`
	ProfilePath string `yaml:"profile_path"`

	//Application behavior
	Headless          bool              `yaml:"headless"`
	MaxApplications   int               `yaml:"max_applications_per_day"`
	NavigationTimeout time.Duration     `yaml:"navigation_timeout"`
	SettleDelay       time.Duration     `yaml:"settle_delay"`
	ReviewTimeout     time.Duration     `yaml:"review_timeout"`
	ScreenshotDir     string            `yaml:"screenshot_dir"`
	AnswerOverrides   map[string]string `yaml:"predetermined_answers"`

	//Email notifications
	SMTPHost          string `yaml:"smtp_host"`
	SMTPPort          int    `yaml:"smtp_port"`
	EmailAddress      string `yaml:"email_address" env:"EMAIL_ADDRESS"`
	EmailPassword     string `yaml:"email_password" env:"EMAIL_PASSWORD"`
	NotificationEmail string `yaml:"notification_email"`

	//Telegram notifications (optional)
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAIAPIKey = key
	}

	if addr := os.Getenv("EMAIL_ADDRESS"); addr != "" {
		cfg.EmailAddress = addr
	}

	if pass := os.Getenv("EMAIL_PASSWORD"); pass != "" {
		cfg.EmailPassword = pass
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	applyDefaults(cfg)

	//Validate required fields
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4-turbo-preview"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}
	if len(cfg.GithubRepos) == 0 {
		cfg.GithubRepos = []string{
			"SimplifyJobs/Summer2025-Internships",
			"ReaVNaiL/New-Grad-2024",
			"cvrve/New-Grad-2025",
		}
	}
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = 0.7
	}
	if cfg.ResumePath == "" {
		cfg.ResumePath = "resume.pdf"
	}
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = "user_data.json"
	}
	if cfg.MaxApplications == 0 {
		cfg.MaxApplications = 10
	}
	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 2 * time.Second
	}
	if cfg.ReviewTimeout == 0 {
		cfg.ReviewTimeout = 10 * time.Minute
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
}
