package web

import (
	"context"
	"embed"
	"io"
	"net"
	"net/http"
	"strconv"

	"gift-gap/config"
	"gift-gap/logger"
	"gift-gap/util/common"
	"gift-gap/web/controller"
	"gift-gap/web/global"
	"gift-gap/web/job"
	"gift-gap/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed translation/*
var i18nFS embed.FS

type Server struct {
	httpServer *http.Server
	listener   net.Listener

	participant *controller.ParticipantController
	server      *controller.ServerController

	tgbotService service.Tgbot

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	g := engine.Group("/")
	s.participant = controller.NewParticipantController(g)
	s.server = controller.NewServerController(g)

	return engine, nil
}

func (s *Server) startTask() {
	s.cron.AddJob("@every 10m", job.NewCheckpointJob())

	_, err := s.cron.AddJob(config.GetStatsNotifyCron(), job.NewStatsNotifyJob())
	if err != nil {
		logger.Warning("Add stats notify job failed:", err)
	}
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	global.SetWebServer(s)

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	s.listener = listener
	logger.Info("Web server running HTTP on", listener.Addr())

	s.httpServer = &http.Server{
		Handler: engine,
	}

	go func() {
		s.httpServer.Serve(listener)
	}()

	s.startTask()

	if config.GetTgBotToken() != "" {
		global.SetTgBot(&s.tgbotService)
		if err := s.tgbotService.Start(i18nFS); err != nil {
			logger.Error("Start Telegram bot failed:", err)
		}
	} else {
		logger.Warning("Telegram bot token is empty, bot is disabled")
	}

	return nil
}

func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.tgbotService.IsRunning() {
		s.tgbotService.Stop()
	}
	var err1 error
	var err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

func (s *Server) GetCtx() context.Context {
	return s.ctx
}

func (s *Server) GetCron() *cron.Cron {
	return s.cron
}
