package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	cfg := loadConfig()

	app := &cli.App{
		Name:  "minspritz",
		Usage: "hash and encrypt files with the Spritz sponge",
		Commands: []*cli.Command{
			hashCommand(cfg),
			cryptCommand(cfg),
			repassCommand(cfg),
			vectorsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
