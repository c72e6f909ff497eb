package config

import (
	"fmt"
	"os"

	"nutriai-backend/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB  *gorm.DB
	Log *zap.Logger
)

func InitLogger() {
	var err error
	if os.Getenv("APP_ENV") == "dev" {
		Log, err = zap.NewDevelopment()
	} else {
		Log, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
}

func InitDB() {
	if err := godotenv.Load(); err != nil {
		Log.Warn(".env file not found, relying on environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		Log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := Migrate(DB); err != nil {
		Log.Fatal("auto-migrate failed", zap.Error(err))
	}
}

// Migrate is split out so tests can run it against their own connection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.DietPlan{},
	)
}
