package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/bookhive/catalog-service/catalog/app"
	"github.com/bookhive/catalog-service/catalog/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file found, using environment variables")
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.InfoLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
