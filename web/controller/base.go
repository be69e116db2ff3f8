package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BaseController struct{}

type msgResponse struct {
	Success bool        `json:"success"`
	Msg     string      `json:"msg"`
	Obj     interface{} `json:"obj,omitempty"`
}

func jsonObj(c *gin.Context, obj interface{}, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, msgResponse{Success: false, Msg: err.Error()})
		return
	}
	c.JSON(http.StatusOK, msgResponse{Success: true, Obj: obj})
}

func jsonMsg(c *gin.Context, msg string, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, msgResponse{Success: false, Msg: msg + ": " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, msgResponse{Success: true, Msg: msg})
}
