package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/cHemingway/minspritz/spritz"
)

// hashFile hashes one file (or stdin, for "-") and prints the digest
// as uppercase hex with no separators, one line per input.
func hashFile(w io.Writer, fname string, bits int) (err error) {
	var inFile *os.File

	if fname == "-" {
		inFile = os.Stdin
		fname = ""
	} else {
		if inFile, err = os.Open(fname); err != nil {
			return
		}
		defer inFile.Close()
	}

	shash := spritz.NewHash(bits)
	if _, err = io.Copy(shash, inFile); err != nil {
		return
	}

	if fname == "" {
		fmt.Fprintf(w, "%X\n", shash.Sum(nil))
	} else {
		fmt.Fprintf(w, "%X  %s\n", shash.Sum(nil), fname)
	}
	return
}

func hashRoutine(w io.Writer, bits int, input chan string, errs chan uint64) {
	var errCount uint64
	for fname := range input {
		if err := hashFile(w, fname, bits); err != nil {
			fmt.Fprintf(os.Stderr, "Hashing %s: %v\n", fname, err)
			errCount++
		}
	}
	errs <- errCount
}

// runHashPool feeds the given files (walking directories) to a pool of
// hashing goroutines, and reports the total number of failures.
func runHashPool(w io.Writer, bits, jobs int, files []string) uint64 {
	var errCount uint64

	input, errs := make(chan string, jobs), make(chan uint64, jobs)
	for idx := 0; idx < jobs; idx++ {
		go hashRoutine(w, bits, input, errs)
	}

	// act as a filter with no args...
	if len(files) == 0 {
		input <- "-"
	}

	for _, fname := range files {
		err := filepath.Walk(fname, func(fname string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.Mode().IsRegular() {
				input <- fname
			}
			return nil
		})

		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			errCount++
		}
	}

	// close the input channel and collect the worker goroutines'
	// error counts.
	close(input)
	for idx := 0; idx < jobs; idx++ {
		errCount += <-errs
	}
	return errCount
}

func hashCommand(cfg config) *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "compute the spritz hash of files (stdin with no args)",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Aliases: []string{"s"}, Value: cfg.Size, Usage: "size of the hash in bits"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: cfg.Jobs, Usage: "number of concurrent hashes to compute"},
		},
		Action: func(c *cli.Context) error {
			if errCount := runHashPool(os.Stdout, c.Int("size"), c.Int("jobs"), c.Args().Slice()); errCount > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
