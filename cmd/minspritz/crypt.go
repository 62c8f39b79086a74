// A rudimentary encryptor-decryptor.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/urfave/cli/v2"

	"github.com/cHemingway/minspritz/spritz"
)

// odir puts the output file in the requested directory, if one was
// given.
func odir(outdir, in string) string {
	if len(outdir) == 0 {
		return in
	}
	return filepath.Join(outdir, filepath.Base(in))
}

// chext changes the extension of a file name
func chext(in, ext string) string {
	dir, base := filepath.Dir(in), filepath.Base(in)
	idx := strings.LastIndex(base, ".")
	if idx > 0 {
		base = base[0:idx]
	}

	return filepath.Join(dir, base+ext)
}

func encrypt(pw, outdir, fn string) error {
	var err error

	var inFile, outFile *os.File
	var embeddedName string
	if fn == "-" {
		inFile, outFile = os.Stdin, os.Stdout
	} else {
		embeddedName = filepath.Base(fn)

		encn := odir(outdir, chext(fn, ".dat"))
		fmt.Printf("%s -> %s\n", fn, encn)

		if inFile, err = os.Open(fn); err != nil {
			return err
		}
		defer inFile.Close()

		outFile, err = os.OpenFile(encn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			return err
		}
		defer outFile.Close()
	}

	writer, err := spritz.WrapWriter(outFile, pw, embeddedName)
	if err != nil {
		return err
	}

	compressed := zlib.NewWriter(writer)
	_, err = io.Copy(compressed, inFile)
	compressed.Close() // flush everything not yet written...

	return err
}

// initDecryption sets up a decryption, by checking that the password
// is correct, and parsing out the original filename if it's there.
// It returns the io.Reader to read decrypted bytes, the base
// *os.File for the caller to close, the filename, and any errors
// it encountered.
func initDecryption(pw, fn string) (io.Reader, *os.File, string, error) {
	var inFile *os.File
	var err error

	if fn == "-" {
		inFile = os.Stdin
	} else {
		if inFile, err = os.Open(fn); err != nil {
			return nil, nil, "", err
		}
	}

	rdr, decn, err := spritz.WrapReader(inFile, pw)
	return rdr, inFile, decn, err
}

func check(pw, outdir, fn string) error {
	_, fl, decn, err := initDecryption(pw, fn)
	if fl != nil {
		defer fl.Close()
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s: good file. Unencrypted name is <%s>\n", fn, decn)
	return nil
}

func decrypt(pw, outdir, fn string) error {
	var outFile *os.File

	reader, fl, decn, err := initDecryption(pw, fn)
	if fl != nil {
		defer fl.Close()
	}
	if err != nil {
		return err
	}

	if fn == "-" {
		outFile = os.Stdout
	} else {
		if len(decn) == 0 {
			if strings.HasSuffix(fn, ".dat") {
				decn = fn[:len(fn)-4]
			} else {
				decn = fn + ".decrypted"
			}
		} else {
			decn = filepath.Join(filepath.Dir(fn), decn)
		}

		decn = odir(outdir, decn)
		fmt.Printf("%s -> %s\n", fn, decn)

		outFile, err = os.OpenFile(decn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			return err
		}
		defer outFile.Close()
	}

	decomp, err := zlib.NewReader(reader)
	if err != nil {
		return err
	}

	_, err = io.Copy(outFile, decomp)
	decomp.Close()
	return err
}

func cryptCommand(cfg config) *cli.Command {
	return &cli.Command{
		Name:      "crypt",
		Usage:     "encrypt or decrypt files (stdin/stdout with no args)",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "the password to use for encryption/decryption"},
			&cli.StringFlag{Name: "odir", Aliases: []string{"o"}, Value: cfg.OutDir, Usage: "the output directory"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: cfg.Jobs, Usage: "number of concurrent files to work on"},
			&cli.BoolFlag{Name: "decrypt", Aliases: []string{"d"}, Usage: "decrypt the files"},
			&cli.BoolFlag{Name: "check", Aliases: []string{"c"}, Usage: "check the file/pw combination"},
		},
		Action: func(c *cli.Context) error {
			pw := c.String("password")
			if len(pw) == 0 {
				var times = 2
				if c.Bool("decrypt") || c.Bool("check") {
					times = 1
				}

				var err error
				if pw, err = promptPassword("Password: ", times); err != nil {
					return err
				}
			}
			if len(pw) == 0 {
				return cli.Exit("missing password", 2)
			}

			// select the encryption/decryption function
			var process func(string, string, string) error
			switch {
			case c.Bool("check"):
				process = check
			case c.Bool("decrypt"):
				process = decrypt
			default:
				process = encrypt
			}

			// no filenames means act as a filter
			files := c.Args().Slice()
			if len(files) == 0 {
				files = append(files, "-")
			}

			var errCount int
			var errMutex sync.Mutex
			var wg sync.WaitGroup
			limiter := make(chan struct{}, c.Int("jobs"))
			outdir := c.String("odir")

			wg.Add(len(files))
			for _, fname := range files {
				go func(fname string) {
					defer wg.Done()

					limiter <- struct{}{}
					if err := process(pw, outdir, fname); err != nil {
						fmt.Fprintf(os.Stderr, "%v\n", err)
						errMutex.Lock()
						errCount++
						errMutex.Unlock()
					}
					<-limiter
				}(fname)
			}

			wg.Wait()

			if errCount > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
