package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cHemingway/minspritz/spritz"
)

// The three inputs from Section E of the Rivest/Schuldt paper.
var vectorInputs = []string{"ABC", "spam", "arcfour"}

func vectorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "vectors",
		Usage: "print the 256-bit digests of the paper's test inputs",
		Action: func(*cli.Context) error {
			for _, m := range vectorInputs {
				fmt.Printf("%X\n", spritz.Sum(256, []byte(m)))
			}
			return nil
		},
	}
}
