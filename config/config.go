package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/library-backend/models"
)

var DB *gorm.DB

// Settings holds everything read from the environment besides the DSN.
type Settings struct {
	Port             string
	JWTSecret        string
	LibrarianEmail   string
	ChatWebhookURL   string
	ExportDir        string
	LoanPeriod       time.Duration
	InactivityWindow time.Duration
	MonthlyCron      string // report mail schedule
	DailyCron        string // inactivity check schedule
}

// Load builds Settings from env vars with the documented defaults.
func Load() Settings {
	return Settings{
		Port:             getEnvOrDefault("PORT", "8080"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "dev-secret-change-me"),
		LibrarianEmail:   getEnvOrDefault("LIBRARIAN_EMAIL", "librarian@email.com"),
		ChatWebhookURL:   os.Getenv("CHAT_WEBHOOK_URL"),
		ExportDir:        getEnvOrDefault("EXPORT_DIR", "exports"),
		LoanPeriod:       time.Duration(getEnvInt("LOAN_PERIOD_DAYS", 3)) * 24 * time.Hour,
		InactivityWindow: time.Duration(getEnvInt("INACTIVITY_THRESHOLD_HOURS", 24)) * time.Hour,
		MonthlyCron:      getEnvOrDefault("MONTHLY_REPORT_CRON", "0 8 1 * *"),
		DailyCron:        getEnvOrDefault("DAILY_REMINDER_CRON", "0 18 * * *"),
	}
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func InitDB() {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		dbHost, dbUser, dbPass, dbName, dbPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatal("cannot connect to database: ", err)
	}

	DB = db

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("cannot get sql.DB from gorm: ", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(DB); err != nil {
		log.Fatal("autoMigrate failed: ", err)
	}
	log.Println("postgreSQL connected & migrated successfully!")
}

// Migrate runs schema migration for every model. Shared with tests,
// which run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Section{},
		&models.Book{},
	)
}
