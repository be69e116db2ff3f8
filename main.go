package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"gift-gap/config"
	"gift-gap/database"
	"gift-gap/logger"
	"gift-gap/web"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

func runServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatalf("Unknown log level: %v", config.GetLogLevel())
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	server := web.NewServer()
	err = server.Start()
	if err != nil {
		log.Fatalf("Error starting web server: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP signal. Restarting servers...")

			err := server.Stop()
			if err != nil {
				logger.Warning("Error stopping web server:", err)
			}

			server = web.NewServer()
			err = server.Start()
			if err != nil {
				logger.Error("Error restarting web server:", err)
				return
			}
			logger.Info("Web server restarted successfully.")
		default:
			server.Stop()
			if err := database.Checkpoint(); err != nil {
				logger.Warning("Final checkpoint failed:", err)
			}
			database.CloseDB()
			logger.Info("Shutting down servers.")
			return
		}
	}
}

func main() {
	_ = godotenv.Load()
	runServer()
}
