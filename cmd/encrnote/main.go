// encrnote serves a single spritz-encrypted note file over HTTP, so it
// can be read and edited from a browser without the plaintext ever
// touching the disk.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/fcgi"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/cHemingway/minspritz/spritz"
)

var fname string // the encrypted note file
var pw string    // the password of the loaded file

var log = logrus.New()

func main() {
	app := &cli.App{
		Name:  "encrnote",
		Usage: "edit a spritz-encrypted note over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "local", Usage: "serve as webserver on this localhost port (e.g., 8000)"},
			&cli.StringFlag{Name: "input", Required: true, Usage: "use the given input file"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	fname = c.String("input")

	http.HandleFunc("/", mainHandler)
	http.HandleFunc("/encr.css", cssHandler)
	http.HandleFunc("/load", loadHandler)
	http.HandleFunc("/save", saveHandler)

	local := c.String("local")
	if local != "" {
		log.WithField("port", local).Info("listening on localhost")
		return http.ListenAndServe("localhost:"+local, nil)
	}
	return fcgi.Serve(nil, nil)
}

func mainHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "index.html")
}

func cssHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "encr.css")
}

type response struct {
	OK          bool
	Text        string
	ErrorDetail string
}

func writeErr(err error, w http.ResponseWriter) {
	respjson, _ := json.Marshal(&response{false, "", err.Error()})
	w.Write(respjson)
	log.Error(err)
}

func loadHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("load")
	pw = "" // only set the global pw on success

	pwbytes, err := io.ReadAll(r.Body)
	if err != nil {
		writeErr(err, w)
		return
	}

	locpw := string(pwbytes)
	src, err := os.Open(fname)
	if err != nil {
		writeErr(err, w)
		return
	}
	defer src.Close()

	decrypted, _, err := spritz.WrapReader(src, locpw)
	if err != nil {
		writeErr(err, w)
		return
	}

	docbytes, err := io.ReadAll(decrypted)
	if err != nil {
		writeErr(err, w)
		return
	}

	respjson, err := json.Marshal(&response{true, string(docbytes), ""})
	if err != nil {
		writeErr(err, w)
		return
	}

	pw = locpw // all ok, save the pw
	w.Write(respjson)
}

func saveHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("save")
	if len(pw) == 0 {
		writeErr(fmt.Errorf("file not properly loaded"), w)
		return
	}

	docbytes, err := io.ReadAll(r.Body)
	if err != nil {
		writeErr(err, w)
		return
	}

	if err = os.Rename(fname, fname+".bak"); err != nil {
		writeErr(err, w)
		return
	}

	outFile, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		writeErr(err, w)
		return
	}
	defer outFile.Close()

	writer, err := spritz.WrapWriter(outFile, pw, "")
	if err != nil {
		writeErr(err, w)
		return
	}

	if _, err = writer.Write(docbytes); err != nil {
		writeErr(err, w)
		return
	}

	respjson, err := json.Marshal(&response{true, "", ""})
	if err != nil {
		writeErr(err, w)
		return
	}
	w.Write(respjson)
}
