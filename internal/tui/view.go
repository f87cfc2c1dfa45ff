package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/social-transcriber/internal/bulk"
)

// Palette
const (
	colorCoral = lipgloss.Color("#FF6B6B")
	colorTeal  = lipgloss.Color("#4ECDC4")
	colorMint  = lipgloss.Color("#95E1A3")
	colorSun   = lipgloss.Color("#FFE66D")
	colorSky   = lipgloss.Color("#A8DADC")
	colorSlate = lipgloss.Color("#6C757D")
	colorAmber = lipgloss.Color("#F8B500")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCoral).MarginBottom(1)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorTeal)
	successStyle  = lipgloss.NewStyle().Foreground(colorMint)
	errorStyle    = lipgloss.NewStyle().Foreground(colorCoral)
	warningStyle  = lipgloss.NewStyle().Foreground(colorSun)
	infoStyle     = lipgloss.NewStyle().Foreground(colorSky)
	dimStyle      = lipgloss.NewStyle().Foreground(colorSlate)
	sourceStyle   = lipgloss.NewStyle().Foreground(colorAmber)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTeal).
			Padding(1, 2)
)

// levelLook maps a progress level to its marker and style.
func levelLook(level bulk.ProgressLevel) (string, lipgloss.Style) {
	switch level {
	case bulk.LevelError:
		return "✗", errorStyle
	case bulk.LevelWarning:
		return "!", warningStyle
	case bulk.LevelSuccess:
		return "✓", successStyle
	case bulk.LevelInfo:
		return "›", infoStyle
	}
	return "•", dimStyle
}

// View renders the UI.
func (m Model) View() string {
	sections := []string{
		titleStyle.Render("Social Transcriber"),
		dimStyle.Render("Transcribe videos from TikTok, YouTube, Facebook, Instagram, Reddit, Twitch, Vimeo and X") + "\n",
	}

	var body []string
	switch m.state {
	case StateInput:
		body = m.inputSection()
	case StatePlanning:
		body = m.planningSection()
	case StateTranscribing:
		body = m.transcribingSection()
	case StateComplete:
		body = m.completeSection()
	case StateError:
		body = m.errorSection()
	}
	sections = append(sections, body...)

	if m.notice != "" {
		sections = append(sections, "", warningStyle.Render(m.notice))
	}
	sections = append(sections, "", dimStyle.Render(m.helpText()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func checkbox(on bool, label string) string {
	if on {
		return "  [x] " + label
	}
	return "  [ ] " + label
}

func (m Model) inputSection() []string {
	pending := m.settings.BulkFile
	if m.usePendingFile {
		pending = fmt.Sprintf("%s, %d URLs", pending, m.pendingURLs)
	}

	return []string{
		subtitleStyle.Render("Enter video, playlist, channel or profile URLs:"),
		"",
		m.textInput.View(),
		"",
		infoStyle.Render("Options:"),
		checkbox(m.enhance, "Enhance with LLM (ctrl+e)"),
		checkbox(m.platformTranscripts, "Use platform transcripts (ctrl+t)"),
		checkbox(m.usePendingFile, fmt.Sprintf("Include pending file (%s) (ctrl+f)", pending)),
		checkbox(m.verbose, "Verbose output (ctrl+o)"),
		"",
		dimStyle.Render(fmt.Sprintf("Output path: %s | Workers: %d | Speed: %gx",
			m.settings.OutputDir, m.settings.MaxWorkers, m.settings.SpeedMultiplier)),
	}
}

func (m Model) planningSection() []string {
	lines := []string{
		m.spinner.View() + " " + subtitleStyle.Render("Discovering videos..."),
		"",
	}
	return append(lines, m.logLines()...)
}

func (m Model) transcribingSection() []string {
	var lines []string
	if len(m.sources) > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("Found %d video(s) in %d source(s):", m.totalJobs, len(m.sources))))
		for _, source := range m.sources {
			lines = append(lines, sourceStyle.Render("  > "+source))
		}
		lines = append(lines, "")
	}

	var done float64
	if m.totalJobs > 0 {
		done = float64(m.completedJobs) / float64(m.totalJobs)
	}
	lines = append(lines,
		m.spinner.View()+" "+m.progress.ViewAs(done),
		infoStyle.Render(fmt.Sprintf("Videos: %d/%d | Failed: %d", m.completedJobs, m.totalJobs, m.failedJobs)),
		"",
	)
	return append(lines, m.logLines()...)
}

func (m Model) completeSection() []string {
	summary := []string{"Transcription Complete!", ""}
	if m.report != nil {
		summary = append(summary, m.report.Summary()...)
	}
	if m.removedURLs > 0 {
		summary = append(summary, fmt.Sprintf("Removed %d completed URLs from %s", m.removedURLs, m.settings.BulkFile))
	}

	lines := []string{boxStyle.Render(strings.Join(summary, "\n")), ""}
	return append(lines, m.logLines()...)
}

func (m Model) errorSection() []string {
	lines := []string{errorStyle.Render("Error occurred:"), ""}
	if m.err != nil {
		lines = append(lines, "  "+m.err.Error())
	}
	if m.report != nil {
		lines = append(lines, "")
		for _, line := range m.report.Summary() {
			lines = append(lines, dimStyle.Render("  "+line))
		}
	}
	return lines
}

func (m Model) logLines() []string {
	lines := make([]string, 0, len(m.logs))
	for _, entry := range m.logs {
		marker, style := levelLook(entry.Level)
		lines = append(lines, style.Render(marker+" "+entry.Message))
	}
	return lines
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+e: enhance • ctrl+t: subtitles • ctrl+f: pending file • ctrl+o: verbose • esc: quit"
	case StatePlanning, StateTranscribing:
		return "esc: cancel • ctrl+c: quit"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}
