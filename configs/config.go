package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Port      string
	LogLevel  string
	DBSource  string
	JWTSecret string
	JWTTTL    time.Duration

	// image storage: "local" (default) or "minio"
	UploadBackend  string
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// path to a Firebase service-account file; empty disables push
	FCMCredentialsPath string

	AdminEmail    string
	AdminPassword string
}

func LoadConfig() *Config {
	// .env is optional outside dev
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		DBSource:  getEnv("DB_SOURCE", "wastetrack.db"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    24 * time.Hour,

		UploadBackend:  getEnv("UPLOAD_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "wastetrack-reports"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",

		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
