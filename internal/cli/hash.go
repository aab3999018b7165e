// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package cli

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readSecret      = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

func cmdHashPassword(args []string) int {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: sessiongate hash-password [flags]

Reads the password from the terminal without echo, or the first line of stdin.

Flags:
	    --cost int			bcrypt cost %d..%d (default %d)
`, bcrypt.MinCost, bcrypt.MaxCost, bcrypt.DefaultCost)
	}
	cost := fs.Int("cost", bcrypt.DefaultCost, "")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "%v", err.Error())
		return 2
	}
	if *cost < bcrypt.MinCost || *cost > bcrypt.MaxCost {
		fmt.Fprintf(os.Stderr, "cost must be between %d and %d\n", bcrypt.MinCost, bcrypt.MaxCost)
		return 2
	}

	pw, err := readPassword()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		return 1
	}

	h, err := auth.HashPassword(pw, *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	fmt.Fprintln(os.Stdout, string(h))
	return 0
}

func readPassword() (string, error) {
	if !stdinIsTerminal() {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw == "" {
			return "", errors.New("empty password")
		}
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := readSecret()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Repeat: ")
	second, err := readSecret()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	if len(first) == 0 {
		return "", errors.New("empty password")
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
