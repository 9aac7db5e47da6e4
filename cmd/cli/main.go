package main

import (
	"context"
	"log"
	"os"

	"github.com/workvault/workvault/internal/buildinfo"
	"github.com/workvault/workvault/internal/cli"
	"github.com/workvault/workvault/internal/config"
	"github.com/workvault/workvault/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Main(ctx)

}
