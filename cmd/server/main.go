package main

import (
	"flag"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"safeguide/internal/config"
	"safeguide/internal/dashboard"
	"safeguide/internal/dataset"
	"safeguide/internal/handler"
	"safeguide/internal/logger"
	"safeguide/internal/metrics"
	"safeguide/internal/middleware"
	"safeguide/internal/service"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	store, err := dataset.Load(cfg.Datasets)
	if err != nil {
		logger.Fatal("dataset load failed", "err", err)
	}
	logger.Info("datasets loaded",
		"homicides", len(store.Homicides()),
		"attractions", len(store.Attractions()),
		"hazards", len(store.Hazards()))
	metrics.DatasetRows.WithLabelValues("homicides").Set(float64(len(store.Homicides())))
	metrics.DatasetRows.WithLabelValues("attractions").Set(float64(len(store.Attractions())))
	metrics.DatasetRows.WithLabelValues("hazards").Set(float64(len(store.Hazards())))

	session, err := dashboard.NewSession(store)
	if err != nil {
		logger.Fatal("default filter values not present in loaded data", "err", err)
	}

	llm := service.NewLLMService(cfg.LLM)
	gate := service.NewGate(llm, time.Duration(cfg.LLM.TimeoutSecs)*time.Second)

	dashH := handler.NewDashboardHandler(store, session)
	chatH := handler.NewChatHandler(gate)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestMetrics())

	api := r.Group("/api")
	api.GET("/filters", dashH.Filters)
	api.PUT("/filters", dashH.UpdateFilters)
	api.GET("/charts/homicides", dashH.HomicideChart)
	api.GET("/charts/events", dashH.EventChart)
	api.GET("/maps/tourism", dashH.TourismMap)
	api.GET("/maps/hazards", dashH.HazardMap)
	api.POST("/chat", chatH.Chat)
	api.GET("/chat/history", chatH.History)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}
