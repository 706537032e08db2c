package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nhle/news-digest/internal/config"
	"github.com/nhle/news-digest/internal/logging"
	"github.com/nhle/news-digest/internal/pipeline"

	_ "github.com/nhle/news-digest/internal/collector/email"
	_ "github.com/nhle/news-digest/internal/processor/openai"
	_ "github.com/nhle/news-digest/internal/sender/email"
)

func main() {
	configPath := flag.String("config", "conf/config.yaml", "path to the configuration file")
	flag.Parse()

	// Optional: variables referenced as ${VAR} in the config may come
	// from a local .env file.
	_ = godotenv.Load()

	log := logging.Get("main")
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("loading configuration failed", zap.Error(err))
	}

	pipeline.New(cfg).Run(context.Background())
}
