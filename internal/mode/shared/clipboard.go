package shared

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// ErrNoClipboard is returned when no clipboard helper is installed.
var ErrNoClipboard = errors.New("no clipboard helper found (install pbcopy, wl-copy or xclip)")

// Clipboard copies text for the user, e.g. a registration's share link.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard pipes text into the platform's clipboard helper.
type SystemClipboard struct{}

// Copy writes text to the system clipboard.
func (SystemClipboard) Copy(text string) error {
	name, args, err := clipboardCommand(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...) //nolint:gosec // fixed helper names
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func clipboardCommand(goos string, lookPath func(string) (string, error)) (string, []string, error) {
	candidates := [][]string{{"xclip", "-selection", "clipboard"}, {"wl-copy"}}
	switch goos {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		candidates = [][]string{{"clip"}}
	case "linux":
		candidates = [][]string{{"wl-copy"}, {"xclip", "-selection", "clipboard"}}
	}
	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c[0], c[1:], nil
		}
	}
	return "", nil, ErrNoClipboard
}

// MemoryClipboard keeps the last copied text.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// Copy records text.
func (m *MemoryClipboard) Copy(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}

// Text returns the last copied text.
func (m *MemoryClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
