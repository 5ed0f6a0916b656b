package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment. Exam
// defaults mirror the documented product rules (100 questions split 70/30,
// 120 minutes, pass at 50%).
type Config struct {
	Port     string
	MongoURI string
	Database string

	RabbitURI      string
	RabbitExchange string

	AllowOrigins []string

	DefaultGATCount     int
	DefaultSubjectCount int
	ExamDuration        time.Duration
	PassThreshold       float64
}

// Load reads the environment (optionally from a .env file) into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	return &Config{
		Port:     getEnv("PORT", "6660"),
		MongoURI: mustGetEnv("MONGO_URI"),
		Database: getEnv("MONGO_DATABASE", "exam_service"),

		RabbitURI:      os.Getenv("RABBITMQ_URI"),
		RabbitExchange: os.Getenv("RABBITMQ_EXCHANGE"),

		AllowOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},

		DefaultGATCount:     getEnvInt("EXAM_GAT_COUNT", 70),
		DefaultSubjectCount: getEnvInt("EXAM_SUBJECT_COUNT", 30),
		ExamDuration:        time.Duration(getEnvInt("EXAM_DURATION_MINUTES", 120)) * time.Minute,
		PassThreshold:       getEnvFloat("EXAM_PASS_THRESHOLD", 0.5),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("%s is required", key)
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s=%q is not an integer: %v", key, v, err)
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("%s=%q is not a number: %v", key, v, err)
	}
	return f
}
