package controller

import (
	"net/http"

	"gift-gap/database"
	"gift-gap/database/model"
	"gift-gap/web/service"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

type ParticipantController struct {
	BaseController

	participantService service.ParticipantService
}

func NewParticipantController(g *gin.RouterGroup) *ParticipantController {
	a := &ParticipantController{}
	a.initRouter(g)
	return a
}

func (a *ParticipantController) initRouter(g *gin.RouterGroup) {
	g.GET("/participants", a.participants)
	g.GET("/draws", a.draws)
	g.GET("/export", a.export)
}

func (a *ParticipantController) participants(c *gin.Context) {
	participants, err := a.participantService.All()
	jsonObj(c, participants, err)
}

func (a *ParticipantController) draws(c *gin.Context) {
	records, err := database.GetDrawHistory(100)
	jsonObj(c, records, err)
}

type exportDump struct {
	Participants []*model.Participant `json:"participants"`
	Draws        []*model.DrawRecord  `json:"draws"`
}

func (a *ParticipantController) export(c *gin.Context) {
	participants, err := a.participantService.All()
	if err != nil {
		jsonMsg(c, "export", err)
		return
	}
	records, err := database.GetDrawHistory(0)
	if err != nil {
		jsonMsg(c, "export", err)
		return
	}

	data, err := json.MarshalIndent(exportDump{Participants: participants, Draws: records}, "", "  ")
	if err != nil {
		jsonMsg(c, "export", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="gift-gap-export.json"`)
	c.Data(http.StatusOK, "application/json", data)
}
