package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	Chat     ChatConfig
	Ingest   IngestConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type OpenAIConfig struct {
	APIKey             string
	BaseURL            string
	Model              string
	TranscriptionModel string
	RequestTimeout     time.Duration
}

// ChatConfig bounds the tool-calling loop and the simulated output stream.
type ChatConfig struct {
	MaxToolRounds int
	CharDelay     time.Duration
	HoursFile     string
}

// IngestConfig bounds the file-processing and run-status polling loops.
type IngestConfig struct {
	FilePollInterval time.Duration
	FilePollAttempts int
	RunPollInterval  time.Duration
	RunPollAttempts  int
	MaxTextChars     int
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, environment variables still apply (Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	openaiTimeout, _ := strconv.Atoi(getEnv("OPENAI_REQUEST_TIMEOUT", "120"))
	maxToolRounds, _ := strconv.Atoi(getEnv("CHAT_MAX_TOOL_ROUNDS", "5"))
	charDelay, _ := strconv.Atoi(getEnv("CHAT_CHAR_DELAY_MS", "15"))
	filePollInterval, _ := strconv.Atoi(getEnv("INGEST_FILE_POLL_INTERVAL_SEC", "2"))
	filePollAttempts, _ := strconv.Atoi(getEnv("INGEST_FILE_POLL_ATTEMPTS", "20"))
	runPollInterval, _ := strconv.Atoi(getEnv("INGEST_RUN_POLL_INTERVAL_SEC", "1"))
	runPollAttempts, _ := strconv.Atoi(getEnv("INGEST_RUN_POLL_ATTEMPTS", "30"))
	maxTextChars, _ := strconv.Atoi(getEnv("INGEST_MAX_TEXT_CHARS", "100000"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ion_assistant"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			BaseURL:            getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:              getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			TranscriptionModel: getEnv("OPENAI_TRANSCRIPTION_MODEL", "whisper-1"),
			RequestTimeout:     time.Duration(openaiTimeout) * time.Second,
		},
		Chat: ChatConfig{
			MaxToolRounds: maxToolRounds,
			CharDelay:     time.Duration(charDelay) * time.Millisecond,
			HoursFile:     getEnv("CHAT_HOURS_FILE", "data/preferred_hours.json"),
		},
		Ingest: IngestConfig{
			FilePollInterval: time.Duration(filePollInterval) * time.Second,
			FilePollAttempts: filePollAttempts,
			RunPollInterval:  time.Duration(runPollInterval) * time.Second,
			RunPollAttempts:  runPollAttempts,
			MaxTextChars:     maxTextChars,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
