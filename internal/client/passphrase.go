package client

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PassphraseEnv names the environment variable read before prompting.
const PassphraseEnv = "COOKIESYNC_PASSPHRASE"

var ErrNoPassphraseSource = errors.New("no passphrase: set " + PassphraseEnv + " or run in a terminal")

// PassphrasePrompt reads the passphrase without echo.
type PassphrasePrompt struct {
	In     *os.File
	Out    io.Writer
	Getenv func(string) string
}

// NewPassphrasePrompt prompts on stdin and writes the prompt to stderr.
func NewPassphrasePrompt() *PassphrasePrompt {
	return &PassphrasePrompt{In: os.Stdin, Out: os.Stderr, Getenv: os.Getenv}
}

// Read returns the passphrase from [PassphraseEnv] if set, otherwise asks
// for it on the terminal. Trailing line breaks are removed; other
// whitespace is part of the passphrase.
func (p *PassphrasePrompt) Read() (string, error) {
	if v := p.Getenv(PassphraseEnv); v != "" {
		return strings.TrimRight(v, "\r\n"), nil
	}

	fd := int(p.In.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoPassphraseSource
	}

	fmt.Fprint(p.Out, "Парольная фраза: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return strings.TrimRight(string(raw), "\r\n"), nil
}

// ReadToken reads a token line from r, e.g. a pipe.
func ReadToken(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
