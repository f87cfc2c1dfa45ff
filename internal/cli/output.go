package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/social-transcriber/internal/bulk"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// printer renders progress events as prefixed, colored lines.
type printer struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func newPrinter(w io.Writer, verbose bool) *printer {
	return &printer{w: w, verbose: verbose}
}

func (p *printer) event(e bulk.ProgressEvent) {
	if e.Level == bulk.LevelVerbose && !p.verbose {
		return
	}

	var prefix string
	var style lipgloss.Style
	switch e.Level {
	case bulk.LevelError:
		prefix, style = "✗ ", errorStyle
	case bulk.LevelWarning:
		prefix, style = "! ", warningStyle
	case bulk.LevelSuccess:
		prefix, style = "✓ ", successStyle
	case bulk.LevelInfo:
		prefix, style = "• ", infoStyle
	default:
		prefix, style = "  ", dimStyle
	}

	p.println(style.Render(prefix + e.Message))
}

func (p *printer) header(title string) {
	p.println(titleStyle.Render(title))
	p.println(dimStyle.Render(rule))
}

func (p *printer) println(lines ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, strings.Join(lines, "\n"))
}
