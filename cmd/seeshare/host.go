package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// cliSource feeds the quick-share pipeline from the command line: an
// explicit --file flag, then the system clipboard. stdin ("-") is
// treated as clipboard text so pipes work the same way.
type cliSource struct {
	file  string
	stdin bool
}

func (s cliSource) SelectedFile() (string, bool) {
	return s.file, s.file != ""
}

// ClipboardFile is a desktop concept (a copied file reference); the
// CLI has no access to it.
func (s cliSource) ClipboardFile() (string, bool) {
	return "", false
}

func (s cliSource) ClipboardText() (string, bool) {
	if s.stdin {
		data, err := readStdin()
		if err != nil {
			return "", false
		}
		return string(data), len(bytes.TrimSpace(data)) > 0
	}
	text, err := readClipboard()
	if err != nil {
		return "", false
	}
	return text, strings.TrimSpace(text) != ""
}

func readStdin() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(os.Stdin); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clipboardReaders in preference order; the first binary on PATH wins.
var clipboardReaders = [][]string{
	{"pbpaste"},
	{"wl-paste", "--no-newline"},
	{"xclip", "-selection", "clipboard", "-o"},
}

var clipboardWriters = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
}

func readClipboard() (string, error) {
	for _, cmd := range clipboardReaders {
		if _, err := exec.LookPath(cmd[0]); err != nil {
			continue
		}
		out, err := exec.Command(cmd[0], cmd[1:]...).Output()
		if err != nil {
			return "", errors.Wrapf(err, "%s", cmd[0])
		}
		return string(out), nil
	}
	return "", errors.New("no clipboard tool found (pbpaste, wl-paste, xclip)")
}

// cliClipboard writes the share URL back to the system clipboard and
// always echoes it, so the command is useful on headless hosts too.
type cliClipboard struct{}

func (cliClipboard) Copy(text string) error {
	fmt.Println(text)
	for _, cmd := range clipboardWriters {
		if _, err := exec.LookPath(cmd[0]); err != nil {
			continue
		}
		c := exec.Command(cmd[0], cmd[1:]...)
		c.Stdin = strings.NewReader(text)
		return errors.Wrapf(c.Run(), "%s", cmd[0])
	}
	// Printed above; a missing clipboard tool should not fail the share.
	return nil
}

// cliPrompter asks for the mandatory text-share title on the terminal.
// A preset title (from --title) skips the prompt.
type cliPrompter struct {
	preset string
}

func (p cliPrompter) Title(ctx context.Context, preview string) (string, error) {
	if p.preset != "" {
		return p.preset, nil
	}
	fmt.Fprintf(os.Stderr, "Sharing text:\n  %s\n", strings.ReplaceAll(preview, "\n", "\n  "))
	fmt.Fprint(os.Stderr, "Title (required): ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "read title")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
