package hub

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubward/smarthub/api/client"
	"github.com/hubward/smarthub/gallery"
	"github.com/hubward/smarthub/store"
	"github.com/hubward/smarthub/weather"
)

const (
	transitionDuration = 500 * time.Millisecond
	forecastReturn     = 60 * time.Second
	weatherRefresh     = 10 * time.Minute
)

type keyMap struct {
	Primary  key.Binding
	Settings key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Primary: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "switch view"),
	),
	Settings: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "settings"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type (
	clockTickMsg      time.Time
	weatherTickMsg    struct{}
	idleTimeoutMsg    struct{ seq int }
	forecastReturnMsg struct{ seq int }
	animDoneMsg       struct{ seq int }
	slideTickMsg      struct{ seq int }

	weatherMsg struct {
		current *weather.Current
		err     error
	}
	forecastMsg struct {
		days []weather.Day
		err  error
	}
	saverImagesMsg struct {
		records []gallery.Record
		err     error
	}
	frameMsg struct {
		seq   int
		index int
		frame string
		err   error
	}
)

// Model is the root display model. All timers are single-shot ticks tagged
// with a generation counter; bumping the counter is how a timer is canceled,
// since a stale tick that still fires is dropped on arrival.
type Model struct {
	state    State
	settings store.Settings

	db  *store.Database
	lib *gallery.Library
	hub *client.HubClient
	wx  *weather.Client

	keys keyMap

	width  int
	height int

	now         time.Time
	current     *weather.Current
	weatherErr  error
	forecast    []weather.Day
	forecastErr error

	saver screensaver
	panel settingsPanel

	idleSeq     int
	forecastSeq int
	animSeq     int
	slideSeq    int
}

func NewModel(db *store.Database, lib *gallery.Library, hub *client.HubClient, wx *weather.Client) (*Model, error) {
	settings, err := db.GetSettings()
	if err != nil {
		return nil, err
	}

	return &Model{
		state:    State{Page: PageMain},
		settings: *settings,
		db:       db,
		lib:      lib,
		hub:      hub,
		wx:       wx,
		keys:     keys,
		now:      time.Now(),
	}, nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickClock(),
		m.fetchWeather(),
		m.armIdle(),
	)
}

func (m *Model) tickClock() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m *Model) tickWeather() tea.Cmd {
	return tea.Tick(weatherRefresh, func(time.Time) tea.Msg {
		return weatherTickMsg{}
	})
}

// armIdle re-arms the inactivity deadline using the timeout configured right
// now, not a snapshot from when the monitor started.
func (m *Model) armIdle() tea.Cmd {
	m.idleSeq++
	seq := m.idleSeq
	return tea.Tick(m.settings.InactivityTimeout(), func(time.Time) tea.Msg {
		return idleTimeoutMsg{seq: seq}
	})
}

func (m *Model) armForecastReturn() tea.Cmd {
	m.forecastSeq++
	seq := m.forecastSeq
	return tea.Tick(forecastReturn, func(time.Time) tea.Msg {
		return forecastReturnMsg{seq: seq}
	})
}

func (m *Model) armAnimation() tea.Cmd {
	m.animSeq++
	seq := m.animSeq
	return tea.Tick(transitionDuration, func(time.Time) tea.Msg {
		return animDoneMsg{seq: seq}
	})
}

func (m *Model) armSlide() tea.Cmd {
	m.slideSeq++
	seq := m.slideSeq
	return tea.Tick(m.settings.ImageDuration(), func(time.Time) tea.Msg {
		return slideTickMsg{seq: seq}
	})
}

func (m *Model) fetchWeather() tea.Cmd {
	wx := m.wx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		current, err := wx.Fetch(ctx)
		return weatherMsg{current: current, err: err}
	}
}

func (m *Model) fetchForecast() tea.Cmd {
	wx := m.wx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		days, err := wx.Forecast(ctx)
		return forecastMsg{days: days, err: err}
	}
}

func (m *Model) loadSaverImages() tea.Cmd {
	lib := m.lib
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		records, err := lib.GetAll(ctx)
		return saverImagesMsg{records: records, err: err}
	}
}

func (m *Model) renderFrame(index int) tea.Cmd {
	rec, ok := m.saver.current()
	if !ok {
		return nil
	}
	lib := m.lib
	seq := m.slideSeq
	width, height := m.width, m.height-1
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		data, err := lib.Payload(ctx, rec)
		if err != nil {
			return frameMsg{seq: seq, index: index, err: err}
		}
		frame, err := renderASCII(data, width, height)
		return frameMsg{seq: seq, index: index, frame: frame, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clockTickMsg:
		m.now = time.Time(msg)
		return m, m.tickClock()

	case weatherTickMsg:
		return m, m.fetchWeather()

	case weatherMsg:
		m.current, m.weatherErr = msg.current, msg.err
		if msg.err != nil {
			slog.Warn("unable to fetch weather", "error", msg.err)
		}
		return m, m.tickWeather()

	case forecastMsg:
		m.forecast, m.forecastErr = msg.days, msg.err
		if msg.err != nil {
			slog.Warn("unable to fetch forecast", "error", msg.err)
		}
		return m, nil

	case idleTimeoutMsg:
		if msg.seq != m.idleSeq || m.state.ScreensaverOn {
			return m, nil
		}
		m.state = Transition(m.state, EventIdleTimeout)
		m.saver.reset()
		return m, m.loadSaverImages()

	case saverImagesMsg:
		return m.handleSaverImages(msg)

	case slideTickMsg:
		if msg.seq != m.slideSeq || !m.state.ScreensaverOn {
			return m, nil
		}
		m.saver.advance()
		return m, tea.Batch(m.armSlide(), m.renderFrame(m.saver.index))

	case frameMsg:
		if msg.seq != m.slideSeq || msg.index != m.saver.index {
			return m, nil
		}
		if msg.err != nil {
			slog.Warn("unable to render screensaver image", "error", msg.err)
			return m, nil
		}
		m.saver.frame = msg.frame
		return m, nil

	case forecastReturnMsg:
		if msg.seq != m.forecastSeq {
			return m, nil
		}
		before := m.state
		m.state = Transition(m.state, EventForecastTimeout)
		if m.state.Page != before.Page {
			return m, m.armAnimation()
		}
		return m, nil

	case animDoneMsg:
		if msg.seq != m.animSeq {
			return m, nil
		}
		m.state = Transition(m.state, EventAnimationDone)
		return m, nil

	case panelImagesMsg, panelIPMsg, settingsSavedMsg, panelDeleteMsg:
		return m.updatePanel(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Input while the screensaver runs only wakes the display.
	if m.state.ScreensaverOn {
		m.state = Transition(m.state, EventInput)
		m.slideSeq++ // cancel the slide interval
		cmds := []tea.Cmd{m.armIdle()}
		if m.state.Page == PageForecast {
			cmds = append(cmds, m.armForecastReturn())
		}
		return m, tea.Batch(cmds...)
	}

	// Every key press is qualifying input and re-arms the idle deadline.
	cmds := []tea.Cmd{m.armIdle()}

	switch {
	case key.Matches(msg, m.keys.Primary) && m.state.Page != PageSettings:
		before := m.state
		m.state = Transition(m.state, EventPrimary)
		if m.state.Page != before.Page {
			m.forecastSeq++ // page change cancels the auto-return timer
			cmds = append(cmds, m.armAnimation())
			if m.state.Page == PageForecast {
				cmds = append(cmds, m.armForecastReturn(), m.fetchForecast())
			}
		}

	case key.Matches(msg, m.keys.Settings):
		before := m.state
		m.state = Transition(m.state, EventSecondary)
		if m.state.Page != before.Page {
			m.forecastSeq++
			if m.state.Page == PageSettings {
				cmds = append(cmds, m.openPanel())
			}
		}

	default:
		if m.state.Page == PageSettings {
			cmds = append(cmds, m.handlePanelKey(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleSaverImages(msg saverImagesMsg) (tea.Model, tea.Cmd) {
	// The screensaver may have been dismissed before the load finished.
	if !m.state.ScreensaverOn {
		return m, nil
	}

	m.saver.loading = false
	if msg.err != nil {
		slog.Warn("unable to load screensaver images", "error", msg.err)
		return m, nil
	}
	m.saver.images = msg.records
	if len(msg.records) == 0 {
		return m, nil
	}

	return m, tea.Batch(m.armSlide(), m.renderFrame(0))
}
