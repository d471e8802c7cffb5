package hub

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubward/smarthub/gallery"
)

// settingsPanel is the state of the settings view: the two timing options,
// the merged image list with a cursor, and the upload URL shown to the user.
type settingsPanel struct {
	cursor    int
	images    []gallery.Record
	loading   bool
	uploadURL string
	message   string
}

var (
	timeoutOptionsMs  = []int{5 * 60 * 1000, 10 * 60 * 1000, 15 * 60 * 1000}
	durationOptionsMs = []int{5 * 1000, 10 * 1000, 15 * 1000}
)

// Panel rows 0 and 1 are the timeout and duration options; image list
// entries follow.
const panelFixedRows = 2

type (
	panelImagesMsg struct {
		records []gallery.Record
		err     error
	}
	panelIPMsg struct {
		ip  string
		err error
	}
	settingsSavedMsg struct {
		err error
	}
	panelDeleteMsg struct {
		err error
	}
)

func (m *Model) openPanel() tea.Cmd {
	m.panel = settingsPanel{
		loading:   true,
		uploadURL: m.hub.BaseURL() + "/upload.html",
	}
	return tea.Batch(m.loadPanelImages(), m.fetchDeviceIP())
}

func (m *Model) loadPanelImages() tea.Cmd {
	lib := m.lib
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		records, err := lib.GetAll(ctx)
		return panelImagesMsg{records: records, err: err}
	}
}

func (m *Model) fetchDeviceIP() tea.Cmd {
	hub := m.hub
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ip, err := hub.DeviceIP(ctx)
		return panelIPMsg{ip: ip, err: err}
	}
}

func (m *Model) saveSettings() tea.Cmd {
	db := m.db
	settings := m.settings
	return func() tea.Msg {
		return settingsSavedMsg{err: db.SaveSettings(&settings)}
	}
}

func (m *Model) deleteImage(ref gallery.Ref) tea.Cmd {
	lib := m.lib
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return panelDeleteMsg{err: lib.DeleteOne(ctx, ref)}
	}
}

func (m *Model) clearLocalImages() tea.Cmd {
	lib := m.lib
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return panelDeleteMsg{err: lib.DeleteAll(ctx, gallery.OriginLocal)}
	}
}

func (m *Model) updatePanel(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case panelImagesMsg:
		m.panel.loading = false
		if msg.err != nil {
			slog.Warn("unable to load images for settings", "error", msg.err)
			m.panel.message = "Error loading images"
			return m, nil
		}
		m.panel.images = msg.records
		if m.panel.cursor >= panelFixedRows+len(msg.records) {
			m.panel.cursor = panelFixedRows + len(msg.records) - 1
		}

	case panelIPMsg:
		if msg.err != nil {
			slog.Warn("unable to fetch device ip", "error", msg.err)
			return m, nil
		}
		// Swap the LAN address into the upload URL so a phone on the same
		// network can reach it.
		if u, err := url.Parse(m.hub.BaseURL()); err == nil {
			host := msg.ip
			if port := u.Port(); port != "" {
				host = fmt.Sprintf("%s:%s", msg.ip, port)
			}
			u.Host = host
			m.panel.uploadURL = u.String() + "/upload.html"
		}

	case settingsSavedMsg:
		if msg.err != nil {
			slog.Warn("unable to save settings", "error", msg.err)
			m.panel.message = "Failed to save settings"
			return m, nil
		}
		// If the screensaver is somehow running, its interval picks up the
		// new duration immediately rather than on the next activation.
		if m.state.ScreensaverOn {
			return m, m.armSlide()
		}

	case panelDeleteMsg:
		if msg.err != nil {
			slog.Warn("unable to delete image", "error", msg.err)
			m.panel.message = "Failed to delete image"
			return m, nil
		}
		m.panel.message = "Image deleted"
		return m, m.loadPanelImages()
	}

	return m, nil
}

func (m *Model) handlePanelKey(msg tea.KeyMsg) tea.Cmd {
	maxCursor := panelFixedRows + len(m.panel.images) - 1

	switch msg.String() {
	case "up", "k":
		if m.panel.cursor > 0 {
			m.panel.cursor--
		}

	case "down", "j":
		if m.panel.cursor < maxCursor {
			m.panel.cursor++
		}

	case "left", "h":
		return m.cycleOption(-1)

	case "right", "l":
		return m.cycleOption(1)

	case "d":
		if i := m.panel.cursor - panelFixedRows; i >= 0 && i < len(m.panel.images) {
			return m.deleteImage(m.panel.images[i].Ref)
		}

	case "c":
		m.panel.message = "Clearing local images"
		return m.clearLocalImages()

	case "r":
		m.panel.loading = true
		return m.loadPanelImages()
	}

	return nil
}

func (m *Model) cycleOption(dir int) tea.Cmd {
	switch m.panel.cursor {
	case 0:
		m.settings.InactivityTimeoutMs = cycle(timeoutOptionsMs, m.settings.InactivityTimeoutMs, dir)
	case 1:
		m.settings.ImageDurationMs = cycle(durationOptionsMs, m.settings.ImageDurationMs, dir)
	default:
		return nil
	}
	return m.saveSettings()
}

func cycle(options []int, current, dir int) int {
	for i, v := range options {
		if v == current {
			next := (i + dir + len(options)) % len(options)
			return options[next]
		}
	}
	return options[0]
}
