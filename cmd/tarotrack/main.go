package main

import (
	"os"

	"github.com/joho/godotenv"

	"tarotrack/logger"
	"tarotrack/server"
)

func main() {
	log := logger.New("main")
	if err := godotenv.Load(); err != nil {
		log.Error("Failed to load .env file", err)
		return
	}
	port := os.Getenv("TAROT_PORT")
	if len(port) == 0 {
		log.Error("Env TAROT_PORT not set", nil)
		return
	}
	srv, err := server.NewScoreServer(port)
	if err != nil {
		return
	}
	srv.Run()
}
