package main

import (
	"os"

	"nutriai-backend/config"
	"nutriai-backend/routes"

	"go.uber.org/zap"
)

func main() {
	config.InitLogger()
	defer config.Log.Sync()

	config.InitDB()
	if err := config.SeedDemoData(config.DB); err != nil {
		config.Log.Fatal("seeding demo data failed", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(config.DB, config.Log)
	if err := r.Run(":" + port); err != nil {
		config.Log.Fatal("server exited", zap.Error(err))
	}
}
