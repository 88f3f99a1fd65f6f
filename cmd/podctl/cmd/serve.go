package cmd

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/efortin/podctl/pkg/lifecycle"
	"github.com/efortin/podctl/pkg/operation"
	"github.com/efortin/podctl/pkg/stats"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the lifecycle operations over HTTP",
	Long: `Start an HTTP server exposing the pod lifecycle operations.

Routes:
- POST /pods/:type/{deploy,start,stop,restart,terminate}
- GET  /pods/:type/status
- GET  /gpus
- GET  /health
- GET  /metrics (Prometheus)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cfg, err := newManager(lifecycle.WithMetrics(stats.NewRecorder()))
		if err != nil {
			return err
		}

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.New()
		router.Use(gin.Recovery())

		handler := operation.NewGinHandler(manager)
		handler.RegisterRoutes(router)

		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "project": cfg.ProjectName})
		})
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))

		log.Printf("🚀 Starting podctl API on :%s (project %s)", servePort, cfg.ProjectName)
		return router.Run(":" + servePort)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", getEnvOrDefault("PORT", "8080"), "HTTP server port")
}
