package hub

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hubward/smarthub/gallery"
	"github.com/hubward/smarthub/weather"
)

func sized(m *Model) *Model {
	m.width = 120
	m.height = 40
	return m
}

func TestViewBeforeFirstResize(t *testing.T) {
	m := newTestModel()
	if out := m.View(); out != "" {
		t.Fatalf("expected an empty view before the first resize, got %q", out)
	}
}

func TestViewMainShowsClockAndWeather(t *testing.T) {
	m := sized(newTestModel())
	m.now = time.Date(2026, 8, 30, 15, 4, 0, 0, time.UTC)
	m.current = &weather.Current{Temperature: 71, Humidity: 38, Code: 0, Description: "Clear"}

	out := m.View()
	if !strings.Contains(out, "3:04 PM") {
		t.Fatal("expected the formatted time")
	}
	if !strings.Contains(out, "Sunday, August 30, 2026") {
		t.Fatal("expected the formatted date")
	}
	if !strings.Contains(out, "71°F") || !strings.Contains(out, "Clear") {
		t.Fatal("expected the current conditions")
	}
}

func TestViewMainWeatherStates(t *testing.T) {
	m := sized(newTestModel())
	if out := m.View(); !strings.Contains(out, "Loading weather") {
		t.Fatal("expected the loading placeholder")
	}

	m.weatherErr = errors.New("dial tcp: timeout")
	if out := m.View(); !strings.Contains(out, "Unable to fetch weather") {
		t.Fatal("expected the error line")
	}
}

func TestViewForecast(t *testing.T) {
	m := sized(newTestModel())
	m.state.Page = PageForecast
	m.forecast = []weather.Day{
		{Date: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), High: 81, Low: 60, Code: 0, Description: "Clear"},
		{Date: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), High: 78, Low: 58, Code: 61, Description: "Slight Rain"},
	}

	out := m.View()
	if !strings.Contains(out, "Today") {
		t.Fatal("expected the first day labeled Today")
	}
	if !strings.Contains(out, "Mon") {
		t.Fatal("expected weekday names after the first day")
	}
	if !strings.Contains(out, "81°") || !strings.Contains(out, "60°") {
		t.Fatal("expected high and low temperatures")
	}
}

func TestViewScreensaverEmpty(t *testing.T) {
	m := sized(newTestModel())
	m.state.ScreensaverOn = true
	m.saver.loading = false

	out := m.View()
	if !strings.Contains(out, "No images uploaded. Press any key to return.") {
		t.Fatal("expected the empty-collection message")
	}
}

func TestViewScreensaverCounter(t *testing.T) {
	m := sized(newTestModel())
	m.state.ScreensaverOn = true
	m.saver.images = []gallery.Record{
		{Ref: gallery.LocalRef(1)},
		{Ref: gallery.LocalRef(2)},
		{Ref: gallery.LocalRef(3)},
	}
	m.saver.index = 1
	m.saver.frame = "frame art"

	out := m.View()
	if !strings.Contains(out, "2 / 3") {
		t.Fatal("expected the position counter")
	}
	if !strings.Contains(out, "frame art") {
		t.Fatal("expected the rendered frame")
	}
}

func TestViewSettings(t *testing.T) {
	m := sized(newTestModel())
	m.state.Page = PageSettings
	m.panel.uploadURL = "http://192.168.1.42:3000/upload.html"
	m.panel.images = []gallery.Record{
		{Ref: gallery.ServerRef("a.jpg"), Name: "a.jpg"},
	}

	out := m.View()
	if !strings.Contains(out, "5 minutes") {
		t.Fatal("expected the timeout setting")
	}
	if !strings.Contains(out, "15 seconds") {
		t.Fatal("expected the duration setting")
	}
	if !strings.Contains(out, "http://192.168.1.42:3000/upload.html") {
		t.Fatal("expected the upload url")
	}
	if !strings.Contains(out, "a.jpg") || !strings.Contains(out, "server") {
		t.Fatal("expected the image list with origin tags")
	}
}

func TestStripANSI(t *testing.T) {
	styled := "\x1b[38;5;15mhello\x1b[0m world"
	if got := stripANSI(styled); got != "hello world" {
		t.Fatalf("stripANSI: got %q", got)
	}
}

func TestFormatDurations(t *testing.T) {
	if got := formatMinutes(10 * 60 * 1000); got != "10 minutes" {
		t.Fatalf("formatMinutes: got %q", got)
	}
	if got := formatSeconds(5 * 1000); got != "5 seconds" {
		t.Fatalf("formatSeconds: got %q", got)
	}
}
