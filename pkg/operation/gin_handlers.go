package operation

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/efortin/podctl/pkg/lifecycle"
)

// GinHandler handles lifecycle operation requests using Gin.
type GinHandler struct {
	manager Manager
}

// NewGinHandler creates a new Gin operation handler.
func NewGinHandler(manager Manager) *GinHandler {
	return &GinHandler{
		manager: manager,
	}
}

// RegisterRoutes mounts the lifecycle routes on the router.
func (h *GinHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/pods/:type/deploy", h.DeployHandler)
	r.POST("/pods/:type/start", h.StartHandler)
	r.POST("/pods/:type/stop", h.StopHandler)
	r.POST("/pods/:type/restart", h.RestartHandler)
	r.POST("/pods/:type/terminate", h.TerminateHandler)
	r.GET("/pods/:type/status", h.StatusHandler)
	r.GET("/gpus", h.GPUsHandler)
}

// DeployHandler handles deploy requests.
func (h *GinHandler) DeployHandler(c *gin.Context) {
	podType := c.Param("type")
	log.Printf("Deploy requested for %s pod", podType)
	h.respond(c, h.manager.Deploy(c.Request.Context(), podType))
}

// StartHandler handles start requests. The deploy_new_if_needed query
// parameter enables the deploy fallback.
func (h *GinHandler) StartHandler(c *gin.Context) {
	podType := c.Param("type")
	deployNew, _ := strconv.ParseBool(c.Query("deploy_new_if_needed"))
	log.Printf("Start requested for %s pod (deploy_new_if_needed=%v)", podType, deployNew)
	h.respond(c, h.manager.Start(c.Request.Context(), podType, deployNew))
}

// StopHandler handles stop requests.
func (h *GinHandler) StopHandler(c *gin.Context) {
	podType := c.Param("type")
	log.Printf("Stop requested for %s pod", podType)
	h.respond(c, h.manager.Stop(c.Request.Context(), podType))
}

// RestartHandler handles restart requests.
func (h *GinHandler) RestartHandler(c *gin.Context) {
	podType := c.Param("type")
	deployNew, _ := strconv.ParseBool(c.Query("deploy_new_if_needed"))
	log.Printf("Restart requested for %s pod (deploy_new_if_needed=%v)", podType, deployNew)
	h.respond(c, h.manager.Restart(c.Request.Context(), podType, deployNew))
}

// TerminateHandler handles terminate requests.
func (h *GinHandler) TerminateHandler(c *gin.Context) {
	podType := c.Param("type")
	log.Printf("Terminate requested for %s pod", podType)
	h.respond(c, h.manager.Terminate(c.Request.Context(), podType))
}

// StatusHandler reports the current pod status.
func (h *GinHandler) StatusHandler(c *gin.Context) {
	podType := c.Param("type")
	res := h.manager.Status(c.Request.Context(), podType)
	if !res.OK {
		h.respond(c, res)
		return
	}
	body := gin.H{
		"pod_type": podType,
		"status":   res.Status,
	}
	if res.Pod != nil {
		body["pod_id"] = res.Pod.ID
		body["pod_name"] = res.Pod.Name
		body["pod_url"] = res.Pod.ProxyURL()
	}
	c.JSON(http.StatusOK, body)
}

// GPUsHandler lists the GPU catalog and the affordable candidates.
func (h *GinHandler) GPUsHandler(c *gin.Context) {
	catalog, candidates, err := h.manager.ListGPUs(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list GPUs: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": gin.H{
				"message": err.Error(),
				"type":    string(lifecycle.ErrProviderUnreachable),
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"gpu_types":  catalog,
		"candidates": candidates,
	})
}

func (h *GinHandler) respond(c *gin.Context, res lifecycle.Result) {
	if !res.OK {
		log.Printf("Operation failed (%s): %s", res.Kind, res.Message)
		errBody := gin.H{
			"message": res.Message,
			"type":    string(res.Kind),
		}
		if res.Stage != "" {
			errBody["stage"] = res.Stage
		}
		c.JSON(httpStatusFor(res.Kind), gin.H{"error": errBody})
		return
	}

	body := gin.H{
		"status":  "success",
		"message": res.Message,
	}
	if res.Status != "" {
		body["pod_status"] = res.Status
	}
	if res.Pod != nil {
		body["pod_id"] = res.Pod.ID
		body["pod_url"] = res.Pod.ProxyURL()
	}
	c.JSON(http.StatusOK, body)
}
