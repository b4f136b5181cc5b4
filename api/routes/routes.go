package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"yatube/api/handlers"
	"yatube/api/middleware"
	"yatube/config"
	"yatube/services"
)

// Register собирает таблицу маршрутов. Статические сегменты
// регистрируются раньше параметрических: /new/, /follow/, /group/ и
// /auth/ соседствуют с профилем /:username/.
func Register(router *gin.Engine, pageCache services.PageCache) {
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.CurrentUser())

	// Кешируется только глобальная лента; остальные области всегда живые
	router.GET("/", middleware.CachePage(pageCache, services.FeedTTL()), handlers.Index)
	router.GET("/group/:slug/", handlers.GroupPosts)

	authPages := router.Group("/auth")
	{
		authPages.GET("/signup/", handlers.Signup)
		authPages.POST("/signup/", handlers.Signup)
		authPages.GET("/login/", handlers.Login)
		authPages.POST("/login/", handlers.Login)
		authPages.GET("/logout/", handlers.Logout)
	}

	loginRequired := middleware.LoginRequired()
	router.GET("/new/", loginRequired, handlers.PostNew)
	router.POST("/new/", loginRequired, handlers.PostNew)
	router.GET("/follow/", loginRequired, handlers.FollowIndex)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	mediaRoot := "media"
	if config.AppConfig != nil && config.AppConfig.Media.Root != "" {
		mediaRoot = config.AppConfig.Media.Root
	}
	router.Static("/media", mediaRoot)

	router.GET("/:username/", handlers.Profile)
	router.GET("/:username/:post_id/", handlers.PostView)
	router.GET("/:username/:post_id/edit/", loginRequired, handlers.PostEdit)
	router.POST("/:username/:post_id/edit/", loginRequired, handlers.PostEdit)
	router.POST("/:username/:post_id/comment", loginRequired, handlers.AddComment)
	router.POST("/:username/follow/", loginRequired, handlers.ProfileFollow)
	router.POST("/:username/unfollow/", loginRequired, handlers.ProfileUnfollow)

	router.NoRoute(handlers.NotFound)
}
