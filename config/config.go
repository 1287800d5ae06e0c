package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port               string
	Environment        string
	Debug              bool
	LogLevel           string
	DBDriver           string
	MongoURI           string
	MongoDatabase      string
	MongoTransactions  bool
	JWTSecret          string
	FrontendURLs       []string
	BackendURL         string
	PushDriver         string
	PusherAppID        string
	PusherKey          string
	PusherSecret       string
	PusherCluster      string
	StorageDriver      string
	LocalStoragePath   string
	S3Region           string
	S3Bucket           string
	GCSProjectID       string
	GCSBucketName      string
	GCSCredentialsFile string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	OutboxInterval     time.Duration
}

// AppConfig is the global configuration
var AppConfig Config

// Init loads .env and reads the configuration from the environment
func Init() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	AppConfig = Config{
		Port:               getEnv("PORT", "5000"),
		Environment:        getEnv("APP_ENV", "development"),
		Debug:              getEnvAsBool("DEBUG", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DBDriver:           getEnv("DB_DRIVER", "mongo"),
		MongoURI:           getEnv("MONGO_URI", ""),
		MongoDatabase:      getEnv("MONGO_DATABASE", "social"),
		MongoTransactions:  getEnvAsBool("MONGO_TRANSACTIONS", true),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		FrontendURLs:       getEnvAsList("FRONTEND_URLS", []string{"http://localhost:3000", "http://localhost:5173"}),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:5000"),
		PushDriver:         getEnv("PUSH_DRIVER", "pusher"),
		PusherAppID:        getEnv("PUSHER_APP_ID", ""),
		PusherKey:          getEnv("PUSHER_KEY", ""),
		PusherSecret:       getEnv("PUSHER_SECRET", ""),
		PusherCluster:      getEnv("PUSHER_CLUSTER", ""),
		StorageDriver:      getEnv("STORAGE_DRIVER", "local"),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		S3Region:           getEnv("S3_REGION", "us-west-2"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		GCSProjectID:       getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		OutboxInterval:     getEnvAsDuration("OUTBOX_INTERVAL", 30*time.Second),
	}

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("running in debug mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Printf("configuration loaded: db=%s push=%s storage=%s",
		AppConfig.DBDriver, AppConfig.PushDriver, AppConfig.StorageDriver)
}

// IsProduction reports whether cookies must be issued with the cross-site production flags
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(key, "")
	if val, err := time.ParseDuration(valStr); err == nil && val > 0 {
		return val
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateConfig() {
	if AppConfig.JWTSecret == "" {
		log.Fatal("error: JWT_SECRET is not set")
	}
	if AppConfig.DBDriver == "mongo" && AppConfig.MongoURI == "" {
		log.Fatal("error: MONGO_URI is not set")
	}
	if AppConfig.PushDriver == "pusher" &&
		(AppConfig.PusherAppID == "" || AppConfig.PusherKey == "" || AppConfig.PusherSecret == "" || AppConfig.PusherCluster == "") {
		log.Fatal("error: pusher configuration is incomplete")
	}
}
