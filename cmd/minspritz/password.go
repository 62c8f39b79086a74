package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// promptPassword reads a password from the terminal without echo.
// With times == 2 the password must be typed twice and match, for use
// when setting a new one.
func promptPassword(prompt string, times int) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}

	if times > 1 {
		fmt.Fprint(os.Stderr, "Again: ")
		again, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", errors.Wrap(err, "reading password")
		}
		if string(pw) != string(again) {
			return "", errors.New("passwords do not match")
		}
	}

	return string(pw), nil
}
