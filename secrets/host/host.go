package host

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/keepassxc-tools/vault-keepassxc-client/secrets"
)

const (
	SourceRandom = "random"
	SourcePrompt = "prompt"
)

// DefaultPrompt is shown when asking for a new password.
const DefaultPrompt = "New password: "

// RandomBytes is the number of random bytes in a generated password
// (512 bits).
const RandomBytes = 64

var _ secrets.Store = &SecretStore{}

// SecretStore resolves new passwords on the local host.
type SecretStore struct {
	// Prompter reads interactive input. Defaults to a TerminalPrompter on
	// stdin and stderr.
	Prompter Prompter
}

func (h *SecretStore) Resolve(keyName string, keyValue string) (string, error) {
	switch strings.ToLower(keyName) {
	case SourceRandom:
		return GenerateRandom()
	case SourcePrompt:
		if keyValue == "" {
			keyValue = DefaultPrompt
		}
		return h.prompter().ReadPassword(keyValue)
	default:
		return "", fmt.Errorf("invalid secret source: %s", keyName)
	}
}

func (h *SecretStore) prompter() Prompter {
	if h.Prompter != nil {
		return h.Prompter
	}
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

// Source returns the source name for the generate-random choice.
func Source(generateRandom bool) string {
	if generateRandom {
		return SourceRandom
	}
	return SourcePrompt
}

// GenerateRandom returns a URL-safe token encoding RandomBytes bytes from
// the system's secure random number generator.
func GenerateRandom() (string, error) {
	buf := make([]byte, RandomBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", errors.Wrap(err, "unable to generate random password")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Prompter asks for a password without echoing it.
type Prompter interface {
	ReadPassword(prompt string) (string, error)
}

// TerminalPrompter reads from In, disabling echo when In is a terminal. The
// prompt is written to Out. Input is returned verbatim, empty input included.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

func (p *TerminalPrompter) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)

	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", errors.Wrap(err, "unable to read password")
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "unable to read password")
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
