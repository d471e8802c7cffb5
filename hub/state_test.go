package hub

import "testing"

func TestPrimaryTogglesMainAndForecast(t *testing.T) {
	s := Transition(State{Page: PageMain}, EventPrimary)
	if s.Page != PageForecast || !s.Animating || s.Prev != PageMain {
		t.Fatalf("main + primary: got %+v", s)
	}

	s.Animating = false
	s = Transition(s, EventPrimary)
	if s.Page != PageMain || !s.Animating || s.Prev != PageForecast {
		t.Fatalf("forecast + primary: got %+v", s)
	}
}

func TestPrimaryIgnoredDuringAnimation(t *testing.T) {
	start := State{Page: PageForecast, Animating: true}
	if s := Transition(start, EventPrimary); s != start {
		t.Fatalf("primary during animation must be a no-op, got %+v", s)
	}
}

func TestPrimaryIgnoredOnSettings(t *testing.T) {
	start := State{Page: PageSettings}
	if s := Transition(start, EventPrimary); s != start {
		t.Fatalf("primary on settings must be a no-op, got %+v", s)
	}
}

func TestSecondaryTogglesSettings(t *testing.T) {
	s := Transition(State{Page: PageForecast}, EventSecondary)
	if s.Page != PageSettings || s.Prev != PageForecast {
		t.Fatalf("forecast + secondary: got %+v", s)
	}

	s = Transition(s, EventSecondary)
	if s.Page != PageMain || s.Prev != PageSettings {
		t.Fatalf("settings + secondary: got %+v", s)
	}
}

func TestSecondaryIgnoredDuringAnimation(t *testing.T) {
	start := State{Page: PageMain, Animating: true}
	if s := Transition(start, EventSecondary); s != start {
		t.Fatalf("secondary during animation must be a no-op, got %+v", s)
	}
}

func TestAnimationDoneClearsFlag(t *testing.T) {
	s := Transition(State{Page: PageForecast, Animating: true}, EventAnimationDone)
	if s.Animating {
		t.Fatal("animation flag should be cleared")
	}
	if s.Page != PageForecast {
		t.Fatalf("animation done must not change the page, got %v", s.Page)
	}
}

func TestForecastTimeoutReturnsToMain(t *testing.T) {
	s := Transition(State{Page: PageForecast}, EventForecastTimeout)
	if s.Page != PageMain || !s.Animating {
		t.Fatalf("forecast timeout: got %+v", s)
	}
}

func TestForecastTimeoutIgnoredElsewhere(t *testing.T) {
	for _, page := range []Page{PageMain, PageSettings} {
		start := State{Page: page}
		if s := Transition(start, EventForecastTimeout); s != start {
			t.Fatalf("forecast timeout on %v must be a no-op, got %+v", page, s)
		}
	}
}

func TestIdleActivatesScreensaverOnAnyPage(t *testing.T) {
	for _, page := range []Page{PageMain, PageForecast, PageSettings} {
		s := Transition(State{Page: page}, EventIdleTimeout)
		if !s.ScreensaverOn {
			t.Fatalf("idle on %v should activate the screensaver", page)
		}
		if s.Page != page {
			t.Fatalf("idle on %v must not change the page, got %v", page, s.Page)
		}
	}
}

func TestScreensaverSwallowsInput(t *testing.T) {
	for _, ev := range []Event{EventPrimary, EventSecondary, EventInput} {
		s := Transition(State{Page: PageForecast, ScreensaverOn: true}, ev)
		if s.ScreensaverOn {
			t.Fatalf("event %v should dismiss the screensaver", ev)
		}
		if s.Page != PageForecast {
			t.Fatalf("dismissal must resume the prior page, got %v", s.Page)
		}
	}
}

func TestScreensaverAnimationDone(t *testing.T) {
	s := Transition(State{ScreensaverOn: true, Animating: true}, EventAnimationDone)
	if !s.ScreensaverOn || s.Animating {
		t.Fatalf("animation done during screensaver: got %+v", s)
	}
}

func TestInputOnlyResetsIdle(t *testing.T) {
	start := State{Page: PageForecast}
	if s := Transition(start, EventInput); s != start {
		t.Fatalf("input must not change the state, got %+v", s)
	}
}

func TestPageString(t *testing.T) {
	cases := map[Page]string{
		PageMain:     "main",
		PageForecast: "forecast",
		PageSettings: "settings",
		Page(99):     "unknown",
	}
	for page, want := range cases {
		if got := page.String(); got != want {
			t.Fatalf("Page(%d).String() = %q, want %q", page, got, want)
		}
	}
}
