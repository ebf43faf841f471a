package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Knowledge KnowledgeConfig
	Language  LanguageConfig
	Logger    LoggerConfig
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
	MaxConns int32
}

// KnowledgeSource selects where the matcher reads its knowledge base from.
type KnowledgeSource string

const (
	KnowledgeSourceFile     KnowledgeSource = "file"
	KnowledgeSourcePostgres KnowledgeSource = "postgres"
)

// Classifier languages used when LANG_CLASSIFIER_LANGUAGES is unset. "all" selects every language lingua knows.
const defaultClassifierLanguages = "en,ru,ar,tr,fr,de,es"

type KnowledgeConfig struct {
	Source      KnowledgeSource
	ModelPath   string
	DatasetPath string
}

type LanguageConfig struct {
	ClassifierEnabled     bool
	ClassifierLanguages   []string // ISO 639-1
	ClassifierMinDistance float64
	GuesserMinLength      int
	GuesserMinConfidence  float64
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables are enough in containers
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout := getEnvInt("SERVER_READ_TIMEOUT", 30)
	writeTimeout := getEnvInt("SERVER_WRITE_TIMEOUT", 30)

	source := KnowledgeSource(strings.ToLower(getEnv("KB_SOURCE", string(KnowledgeSourceFile))))
	if source != KnowledgeSourcePostgres {
		source = KnowledgeSourceFile
	}

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
			DBName:   getEnv("DB_NAME", "namaz_assistant"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 4)),
		},
		Knowledge: KnowledgeConfig{
			Source:      source,
			ModelPath:   getEnv("KB_MODEL_PATH", "data/namaz_model.json"),
			DatasetPath: getEnv("KB_DATASET_PATH", "data/namaz_faq.json"),
		},
		Language: LanguageConfig{
			ClassifierEnabled:     getEnv("LANG_CLASSIFIER_ENABLED", "true") == "true",
			ClassifierLanguages:   splitList(getEnv("LANG_CLASSIFIER_LANGUAGES", defaultClassifierLanguages)),
			ClassifierMinDistance: getEnvFloat("LANG_CLASSIFIER_MIN_DISTANCE", 0),
			GuesserMinLength:      getEnvInt("LANG_GUESSER_MIN_LENGTH", 10),
			GuesserMinConfidence:  getEnvFloat("LANG_GUESSER_MIN_CONFIDENCE", 0),
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

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
