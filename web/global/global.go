package global

import (
	"context"

	"github.com/robfig/cron/v3"
)

type TelegramService interface {
	SendMsgToTgbotAdmins(msg string)
	IsRunning() bool
}

type WebServer interface {
	GetCron() *cron.Cron
	GetCtx() context.Context
}

var (
	webServer WebServer
	tgBot     TelegramService
)

func SetWebServer(s WebServer) {
	webServer = s
}

func GetWebServer() WebServer {
	return webServer
}

func SetTgBot(t TelegramService) {
	tgBot = t
}

func GetTgBot() TelegramService {
	return tgBot
}
