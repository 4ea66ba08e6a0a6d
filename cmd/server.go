package cmd

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/komerce-shop/komerce/api"
	"github.com/komerce-shop/komerce/api/admin"
	"github.com/komerce-shop/komerce/config"
	"github.com/komerce-shop/komerce/database/dbcore"
	"github.com/komerce-shop/komerce/database/sessions"
	"github.com/komerce-shop/komerce/middleware"
	"github.com/komerce-shop/komerce/security/ratelimit"
	"github.com/komerce-shop/komerce/security/validation"
	"github.com/komerce-shop/komerce/ws"
)

var listenAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the storefront API server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Load(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		if err := dbcore.Open(); err != nil {
			slog.Error("database unavailable", "error", err)
			os.Exit(1)
		}

		startJanitor()

		router := buildRouter()
		slog.Info("komerce listening", "addr", listenAddr)
		if err := router.Run(listenAddr); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	serverCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":8080", "listen address")
	RootCmd.AddCommand(serverCmd)
}

func buildRouter() *gin.Engine {
	if !config.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.ErrorBoundary(),
		middleware.BodyLimit(),
		middleware.ResolveUser(),
	)
	router.NoRoute(middleware.NoRoute())
	if _, err := os.Stat("templates"); err == nil {
		router.LoadHTMLGlob("templates/*.tmpl")
	}

	root := router.Group("/api")
	{
		root.GET("/health", api.Health)
		root.GET("/flash", api.Flash)

		auth := root.Group("/auth")
		{
			auth.POST("/register", middleware.ValidateBody("user"), api.Register)
			auth.POST("/login", middleware.ValidateBody("login"), api.Login)
			auth.POST("/logout", api.Logout)
			auth.GET("/me", middleware.RequireUser(), api.Me)
		}

		root.GET("/products", api.ListProducts)
		root.GET("/products/:id", api.GetProduct)
		root.GET("/products/:id/reviews", api.ListProductReviews)

		authed := root.Group("", middleware.RequireUser())
		{
			authed.POST("/orders", middleware.ValidateBody("order"), api.CreateOrder)
			authed.GET("/orders", api.ListOrders)
			authed.GET("/orders/:id", api.GetOrder)
			authed.POST("/reviews", middleware.ValidateBody("review"), api.CreateReview)
			authed.PUT("/products/:id/reviews", middleware.ValidateBody("review-update"), api.UpdateReview)
		}

		adm := root.Group("/admin", middleware.RequireAdmin())
		{
			adm.POST("/products", middleware.ValidateBody("product"), api.CreateProduct)
			adm.PUT("/products/:id", middleware.ValidateBody("product"), api.UpdateProduct)
			adm.DELETE("/products/:id", api.DeleteProduct)

			adm.GET("/errors/stats", admin.GetErrorStats)
			adm.POST("/errors/clear", admin.ClearErrorTracking)
			adm.GET("/errors/feed", ws.Subscribe)
			adm.GET("/validation/stats", admin.GetValidationStats)
			adm.POST("/validation/reset", admin.ResetValidationStats)

			adm.GET("/config", admin.GetConfig)
			adm.POST("/config", admin.UpdateConfig)
			adm.GET("/config/limits", admin.GetLimits)
			adm.POST("/config/limits", admin.UpdateLimits)
		}
	}
	return router
}

// startJanitor 周期清理：限流器空键回收与过期会话删除
func startJanitor() {
	c := cron.New()
	c.AddFunc("@every 5m", func() {
		if removed := ratelimit.Default().Sweep(); removed > 0 {
			slog.Debug("swept idle rate limit keys", "removed", removed)
		}
	})
	c.AddFunc("@hourly", func() {
		if removed, err := sessions.DeleteExpired(); err == nil && removed > 0 {
			slog.Debug("deleted expired sessions", "removed", removed)
		}
	})
	c.AddFunc("@daily", func() {
		validation.ResetStats()
	})
	c.Start()
}
