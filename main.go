package main

import (
	"time"

	"localserve/config"
	"localserve/database"
	"localserve/logger"
	"localserve/middleware"
	"localserve/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found, using environment as-is")
	}

	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
	})

	db, err := database.InitDB()
	if err != nil {
		logger.Fatal("Failed to connect to the database: " + err.Error())
		return
	}

	app.Use(cors.New(middleware.CORSConfig(cfg)))

	publisher := routes.SetupRoutes(app, db, cfg)

	// Rating publish sweep runs for the life of the process.
	stop := make(chan struct{})
	defer close(stop)
	go publisher.Start(stop)

	logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort)
	if err := app.Listen(cfg.AppHost + ":" + cfg.AppPort); err != nil {
		logger.Fatal("Server stopped: " + err.Error())
	}
}
