package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	DBDriver   string
	DBPath     string
	DBDSN      string

	PhotoBackend           string
	PhotoPath              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadPreset string

	AssistantBackend string
	ClaudeAPIKey     string
	ClaudeModel      string
	GeminiAPIKey     string
	GeminiModel      string
	GroqAPIKey       string
	GroqModel        string
	OllamaHost       string
	OllamaModel      string

	WeatherAPIKey  string
	WeatherBaseURL string
	SearchBaseURL  string

	SettingsPath string
	SessionTTL   time.Duration
	LogLevel     string
	LogFile      string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; variables already set take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "168h"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "/data/xamu.db"),
		DBDSN:      getEnv("DB_DSN", ""),

		PhotoBackend:           getEnv("PHOTO_BACKEND", "local"),
		PhotoPath:              getEnv("PHOTO_LOCAL_PATH", "/data/photos"),
		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryUploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "xamu-uploads"),

		AssistantBackend: getEnv("ASSISTANT_BACKEND", "gemini"),
		ClaudeAPIKey:     getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:      getEnv("CLAUDE_MODEL", "claude-sonnet-4-5"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GroqAPIKey:       getEnv("GROQ_API_KEY", ""),
		GroqModel:        getEnv("GROQ_MODEL", "llama3-8b-8192"),
		OllamaHost:       getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_MODEL", "llama3.2"),

		WeatherAPIKey:  getEnv("WEATHER_API_KEY", ""),
		WeatherBaseURL: getEnv("WEATHER_BASE_URL", "https://api.weatherapi.com/v1"),
		SearchBaseURL:  getEnv("SEARCH_BASE_URL", "https://api.duckduckgo.com"),

		SettingsPath: getEnv("SETTINGS_PATH", "/data/settings.yaml"),
		SessionTTL:   ttl,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
	}, nil
}

// DataSource is the argument for db.Open under the configured driver.
func (c *Config) DataSource() string {
	if c.DBDriver == "pgx" {
		return c.DBDSN
	}
	return c.DBPath
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
