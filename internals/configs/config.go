package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string
	AppName   string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[Config] no .env file, using system ENV")
		} else {
			log.Println("[Config] .env loaded")
		}
	} else {
		log.Println("[Config] running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AppName = GetEnv("APP_NAME", "siga")

	if JWTSecret == "" {
		log.Println("[Config] WARNING: JWT_SECRET not set, auth middleware will reject every token")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
