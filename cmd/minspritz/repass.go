package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cHemingway/minspritz/spritz"
)

func repassRoutine(opw, npw string, input chan string, errs chan uint64) {
	var errCount uint64
	for fname := range input {
		if err := spritz.RePasswd(opw, npw, fname); err != nil {
			fmt.Fprintf(os.Stderr, "Repass %s: %v\n", fname, err)
			errCount++
		}
	}
	errs <- errCount
}

func repassCommand(cfg config) *cli.Command {
	return &cli.Command{
		Name:      "repass",
		Usage:     "change the password on encrypted files",
		ArgsUsage: "files...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "oldpass", Aliases: []string{"op"}, Usage: "the password to use for decryption"},
			&cli.StringFlag{Name: "newpass", Aliases: []string{"np"}, Usage: "the password to use for encryption"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: cfg.Jobs, Usage: "number of concurrent files to work on"},
		},
		Action: func(c *cli.Context) error {
			opw, npw := c.String("oldpass"), c.String("newpass")

			var err error
			if len(opw) == 0 {
				if opw, err = promptPassword("Old Password: ", 1); err != nil {
					return err
				}
			}
			if len(npw) == 0 {
				if npw, err = promptPassword("New Password: ", 2); err != nil {
					return err
				}
			}

			// for repass, you must have a file
			files := c.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("no files given", 1)
			}

			// start up the worker goroutines and feed them
			jobs := c.Int("jobs")
			input, errs := make(chan string, jobs), make(chan uint64, jobs)
			for idx := 0; idx < jobs; idx++ {
				go repassRoutine(opw, npw, input, errs)
			}

			for _, fname := range files {
				input <- fname
			}

			// close the input channel and collect the reported
			// error counts
			close(input)
			var errCount uint64
			for idx := 0; idx < jobs; idx++ {
				errCount += <-errs
			}
			if errCount > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
