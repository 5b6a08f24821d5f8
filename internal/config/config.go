package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du serveur, chargée depuis
// l'environnement (un fichier .env est pris en compte s'il existe).
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Service externe de classification d'images (collaborateur opaque)
	ClassifierURL string

	// Clé API Groq pour l'assistant de chat
	GroqAPIKey string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func LoadConfig() (*Config, error) {
	// Charger .env si présent (ignoré en production)
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "greenbinbuddy"),

		ClassifierURL: getEnv("CLASSIFIER_URL", "https://reciclaje-api-64666058644.us-central1.run.app"),
		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	if cfg.DBUser == "" || cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB_USER and DB_PASSWORD must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
