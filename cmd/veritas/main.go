package main

import (
	"context"
	"log"

	"github.com/toxidity-18/Veritas/internal/cli"
	"github.com/toxidity-18/Veritas/internal/config"
)

func main() {

	ctx := context.Background()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
