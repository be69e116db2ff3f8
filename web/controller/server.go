package controller

import (
	"strconv"
	"time"

	"gift-gap/logger"
	"gift-gap/web/service"

	"github.com/gin-gonic/gin"
)

type ServerController struct {
	BaseController

	serverService service.ServerService

	lastStatus        *service.Status
	lastGetStatusTime time.Time
}

func NewServerController(g *gin.RouterGroup) *ServerController {
	a := &ServerController{}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	g.GET("/status", a.status)
	g.GET("/logs/:count", a.getLogs)
}

func (a *ServerController) status(c *gin.Context) {
	now := time.Now()
	if a.lastStatus == nil || now.Sub(a.lastGetStatusTime) > 2*time.Second {
		a.lastStatus = a.serverService.GetStatus()
		a.lastGetStatusTime = now
	}
	jsonObj(c, a.lastStatus, nil)
}

func (a *ServerController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		count = 100
	}
	level := c.DefaultQuery("level", "info")
	logs := logger.GetLogs(count, level)
	jsonObj(c, logs, nil)
}
