package hub

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hubward/smarthub/weather"
)

var (
	timeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	weatherStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			MarginBottom(1)

	dayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Align(lipgloss.Center)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	fadeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.state.ScreensaverOn {
		return m.viewScreensaver()
	}

	var view string
	switch m.state.Page {
	case PageForecast:
		view = m.viewForecast()
	case PageSettings:
		view = m.viewSettings()
	default:
		view = m.viewMain()
	}

	// During the transition window the incoming page renders dimmed.
	if m.state.Animating {
		view = fadeStyle.Render(stripANSI(view))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}

// stripANSI drops per-line styling so the fade style applies uniformly.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Model) viewMain() string {
	timeLine := timeStyle.Render(m.now.Format("3:04 PM"))
	dateLine := dateStyle.Render(m.now.Format("Monday, January 2, 2006"))

	var weatherLine string
	switch {
	case m.weatherErr != nil:
		weatherLine = errorStyle.Render("Unable to fetch weather")
	case m.current == nil:
		weatherLine = mutedStyle.Render("Loading weather...")
	default:
		weatherLine = weatherStyle.Render(fmt.Sprintf(
			"%s  %d°F  %s  ·  Humidity %d%%",
			weather.Glyph(m.current.Code, weather.SystemClock{}),
			m.current.Temperature,
			m.current.Description,
			m.current.Humidity,
		))
	}

	hint := mutedStyle.Render("enter: forecast · s: settings")

	return lipgloss.JoinVertical(lipgloss.Center, timeLine, dateLine, "", weatherLine, "", hint)
}

func (m *Model) viewForecast() string {
	title := titleStyle.Render("7-Day Forecast")

	switch {
	case m.forecastErr != nil:
		return lipgloss.JoinVertical(lipgloss.Center, title, errorStyle.Render("Unable to fetch forecast"))
	case m.forecast == nil:
		return lipgloss.JoinVertical(lipgloss.Center, title, mutedStyle.Render("Loading forecast..."))
	}

	cols := make([]string, 0, len(m.forecast))
	for i, day := range m.forecast {
		name := "Today"
		if i > 0 {
			name = day.Date.Format("Mon")
		}
		col := lipgloss.JoinVertical(
			lipgloss.Center,
			name,
			weather.Glyph(day.Code, weather.SystemClock{}),
			day.Description,
			fmt.Sprintf("%d° %s", day.High, mutedStyle.Render(fmt.Sprintf("%d°", day.Low))),
		)
		cols = append(cols, dayStyle.Render(col))
	}

	grid := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	hint := mutedStyle.Render("enter: back to clock")

	return lipgloss.JoinVertical(lipgloss.Center, title, grid, "", hint)
}

func (m *Model) viewScreensaver() string {
	if m.saver.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			mutedStyle.Render("Loading images..."))
	}

	if len(m.saver.images) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			mutedStyle.Render("No images uploaded. Press any key to return."))
	}

	counter := mutedStyle.Render(fmt.Sprintf("%d / %d", m.saver.index+1, len(m.saver.images)))
	if m.saver.frame == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, counter)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.saver.frame, counter)
}

func (m *Model) viewSettings() string {
	title := titleStyle.Render("Screensaver Settings")

	rows := []string{
		m.panelRow(0, fmt.Sprintf("Inactivity timeout: %s", formatMinutes(m.settings.InactivityTimeoutMs))),
		m.panelRow(1, fmt.Sprintf("Image duration: %s", formatSeconds(m.settings.ImageDurationMs))),
		"",
		fmt.Sprintf("Upload from your phone: %s", weatherStyle.Render(m.panel.uploadURL)),
		"",
	}

	switch {
	case m.panel.loading:
		rows = append(rows, mutedStyle.Render("Loading images..."))
	case len(m.panel.images) == 0:
		rows = append(rows, mutedStyle.Render("No images uploaded yet"))
	default:
		rows = append(rows, fmt.Sprintf("Uploaded images (%d):", len(m.panel.images)))
		for i, img := range m.panel.images {
			label := fmt.Sprintf("%s  %s", img.Name, mutedStyle.Render(string(img.Ref.Origin)))
			rows = append(rows, m.panelRow(panelFixedRows+i, label))
		}
	}

	if m.panel.message != "" {
		rows = append(rows, "", m.panel.message)
	}

	hint := mutedStyle.Render("↑/↓: move · ←/→: change · d: delete · c: clear local · s: close")
	rows = append(rows, "", hint)

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, rows...)...)
}

func (m *Model) panelRow(index int, label string) string {
	if m.panel.cursor == index {
		return selectedStyle.Render("> " + label)
	}
	return "  " + label
}

func formatMinutes(ms int) string {
	return fmt.Sprintf("%d minutes", ms/60000)
}

func formatSeconds(ms int) string {
	return fmt.Sprintf("%d seconds", ms/1000)
}
