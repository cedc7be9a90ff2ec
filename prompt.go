package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers from the terminal.
type prompter struct {
	sc  *bufio.Scanner
	out io.Writer
	in  *os.File
}

func newPrompter(in *os.File, out io.Writer) *prompter {
	return &prompter{sc: bufio.NewScanner(in), out: out, in: in}
}

// line prints label and returns the trimmed answer. ok is false on EOF.
func (p *prompter) line(label string) (string, bool) {
	s, ok := p.rawLine(label)
	return strings.TrimSpace(s), ok
}

// rawLine is line without trimming; only the line terminator is dropped.
func (p *prompter) rawLine(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.sc.Scan() {
		return "", false
	}
	return p.sc.Text(), true
}

// password reads a password with masking when stdin is a terminal. The
// answer is returned exactly as typed.
func (p *prompter) password(label string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		s, ok := p.rawLine(label)
		if !ok {
			return "", io.EOF
		}
		return s, nil
	}
	fmt.Fprint(p.out, label)
	bytePassword, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(p.out) // Add newline after password input
	return string(bytePassword), nil
}

// confirm asks a yes/no question; anything but y/yes is a no.
func (p *prompter) confirm(question string) bool {
	answer, ok := p.line(question + " [y/N]: ")
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
