package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"yatube/api/routes"
	"yatube/config"
	"yatube/db"
	"yatube/logging"
	"yatube/services"
	"yatube/templates"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := logging.Init(config.AppConfig.Logs.Level); err != nil {
		panic("Failed to init logging: " + err.Error())
	}
	defer logging.Sync()

	if dsn := config.AppConfig.Logs.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			logging.L().Warnw("sentry init failed", "err", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	// Кеш ленты совещательный: без Redis работаем напрямую из БД
	if err := services.InitRedis(); err != nil {
		logging.L().Warnw("redis unavailable, feed page cache disabled", "err", err)
	}
	defer services.CloseRedis()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		sentry.CurrentHub().Recover(recovered)
		logging.L().Errorw("panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.HTML(http.StatusInternalServerError, "500.html", nil)
	}))
	router.SetHTMLTemplate(templates.Load())

	routes.Register(router, services.NewRedisPageCache(services.RedisClient))

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	logging.L().Infow("starting server", "addr", addr)
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
