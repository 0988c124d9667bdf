// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminalPrompter reads from stdin and writes prompts to stderr. Secrets
// are read without echo when stdin is a terminal.
func NewTerminalPrompter() Prompter {
	return &terminalPrompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
		fd:  int(os.Stdin.Fd()),
	}
}

func (p *terminalPrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *terminalPrompter) ReadSecret(prompt string) (string, error) {
	if !term.IsTerminal(p.fd) {
		return p.ReadLine(prompt)
	}

	fmt.Fprint(p.out, prompt)
	raw, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}

	secret := string(raw)
	clear(raw)
	return secret, nil
}
