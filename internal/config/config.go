package config

import (
	"crypto/rand"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddress string

	// JWT configuration
	JWTSecret string

	// File storage
	StorageDir     string
	MaxUploadBytes int64

	// Processing pipeline
	WorkerCount      int
	MaxRetries       int
	RetryBackoff     time.Duration
	ChunkMaxWords    int
	SyncProcessLimit int64 // files at or under this size are processed in the request path

	// Collaborator backends
	GrammarAddress    string
	ParaphraseAddress string
	ParaphraseModel   string

	FrontendAddress string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = generateRandomSecret(32)
		log.Println("Generated random JWT secret")
	}

	AppConfig = Config{
		ServerPort:        getEnv("PORT", "8080"),
		Environment:       getEnv("ENV", "development"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "document_improver"),
		RedisAddress:      getEnv("REDIS_ADDRESS", "localhost:6379"),
		JWTSecret:         jwtSecret,
		StorageDir:        getEnv("STORAGE_DIR", "storage"),
		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
		WorkerCount:       getEnvInt("WORKER_COUNT", 4),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		RetryBackoff:      time.Duration(getEnvInt("RETRY_BACKOFF_MS", 500)) * time.Millisecond,
		ChunkMaxWords:     getEnvInt("CHUNK_MAX_WORDS", 200),
		SyncProcessLimit:  getEnvInt64("SYNC_PROCESS_LIMIT_BYTES", 64*1024),
		GrammarAddress:    getEnv("GRAMMAR_ADDRESS", "http://localhost:8010"),
		ParaphraseAddress: getEnv("PARAPHRASE_ADDRESS", "http://localhost:11434"),
		ParaphraseModel:   getEnv("PARAPHRASE_MODEL", "llama3.2"),
		FrontendAddress:   getEnv("FRONTEND_ADDRESS", "https://production-frontend.com"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return n
}

// generateRandomSecret generates a random secret of the specified length
func generateRandomSecret(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	secret := make([]byte, length)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("Could not generate JWT secret: %v", err)
	}
	for i := range secret {
		secret[i] = charset[int(secret[i])%len(charset)]
	}
	return string(secret)
}
