package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	rflipgloss "github.com/fwojciec/rfcli/lipgloss"
)

// Pager displays long text.
type Pager interface {
	Page(ctx context.Context, text string) error
}

// execPager pipes text through bat or less when stdout is a terminal and
// writes it directly otherwise.
type execPager struct {
	stdout   io.Writer
	stderr   io.Writer
	lookPath func(string) (string, error)
}

func newExecPager(stdout, stderr io.Writer) *execPager {
	return &execPager{stdout: stdout, stderr: stderr, lookPath: exec.LookPath}
}

func (p *execPager) Page(ctx context.Context, text string) error {
	f, ok := p.stdout.(*os.File)
	if !ok || !rflipgloss.IsTerminal(f) {
		_, err := io.WriteString(p.stdout, text)
		return err
	}

	name, args := p.command()
	if name == "" {
		_, err := io.WriteString(p.stdout, text)
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr
	return cmd.Run()
}

// command returns the pager to run, preferring bat's man-page highlighting.
func (p *execPager) command() (string, []string) {
	if path, err := p.lookPath("bat"); err == nil {
		return path, []string{"-l", "man", "-p", "--pager", "less -FK"}
	}
	if path, err := p.lookPath("less"); err == nil {
		return path, []string{"-FK"}
	}
	return "", nil
}
