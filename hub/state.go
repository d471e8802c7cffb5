// Package hub is the terminal display: clock/weather dashboard, forecast
// view, settings panel, and photo screensaver.
package hub

// Page is the active view of the display.
type Page int

const (
	PageMain Page = iota
	PageForecast
	PageSettings
)

func (p Page) String() string {
	switch p {
	case PageMain:
		return "main"
	case PageForecast:
		return "forecast"
	case PageSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// State is the navigation state. The screensaver flag is orthogonal to the
// page: activating the screensaver leaves Page untouched so the prior view
// resumes exactly where it was on exit.
type State struct {
	Page          Page
	Prev          Page
	Animating     bool
	ScreensaverOn bool
}

// Event is a navigation input.
type Event int

const (
	// EventPrimary toggles between the main and forecast views.
	EventPrimary Event = iota
	// EventSecondary opens the settings panel, or closes it back to main.
	EventSecondary
	// EventAnimationDone ends the transition window.
	EventAnimationDone
	// EventForecastTimeout auto-returns from forecast to main.
	EventForecastTimeout
	// EventIdleTimeout activates the screensaver.
	EventIdleTimeout
	// EventInput is any qualifying input with no navigation meaning of its own.
	EventInput
)

// Transition is the pure page-navigation step. Timer arming and cancellation
// are the caller's concern; Transition only decides the next state.
func Transition(s State, ev Event) State {
	// Input of any kind while the screensaver is active only deactivates it.
	if s.ScreensaverOn {
		switch ev {
		case EventPrimary, EventSecondary, EventInput:
			s.ScreensaverOn = false
		case EventAnimationDone:
			s.Animating = false
		}
		return s
	}

	switch ev {
	case EventPrimary:
		if s.Animating || s.Page == PageSettings {
			return s
		}
		s.Prev = s.Page
		if s.Page == PageMain {
			s.Page = PageForecast
		} else {
			s.Page = PageMain
		}
		s.Animating = true

	case EventSecondary:
		if s.Animating {
			return s
		}
		s.Prev = s.Page
		if s.Page == PageSettings {
			s.Page = PageMain
		} else {
			s.Page = PageSettings
		}

	case EventAnimationDone:
		s.Animating = false

	case EventForecastTimeout:
		if s.Page != PageForecast {
			return s
		}
		s.Prev = s.Page
		s.Page = PageMain
		s.Animating = true

	case EventIdleTimeout:
		s.ScreensaverOn = true

	case EventInput:
		// Resets the idle deadline; no state change.
	}

	return s
}
