package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/library-backend/config"
	"github.com/vnkhanh/library-backend/jobs"
	"github.com/vnkhanh/library-backend/routes"
	"github.com/vnkhanh/library-backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	cfg := config.Load()

	config.InitDB()
	if err := config.Seed(config.DB, cfg.LibrarianEmail); err != nil {
		log.Fatal("seeding failed: ", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Authentication-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	exports := jobs.NewExportStore(cfg.ExportDir)
	r = routes.SetupRouter(r, config.DB, cfg, exports)

	// Recurring jobs run off the request path, sharing only the store.
	jobs.StartScheduler(
		&jobs.MonthlyReportJob{DB: config.DB, CronSpec: cfg.MonthlyCron, Send: utils.SendEmail},
		&jobs.InactivityJob{DB: config.DB, Window: cfg.InactivityWindow, CronSpec: cfg.DailyCron, Notify: utils.SendChatNotification},
	)

	log.Println("server running at port " + cfg.Port)
	r.Run(":" + cfg.Port)
}
