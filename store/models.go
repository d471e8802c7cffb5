package store

import "time"

type Image struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	MIME       string    `json:"mime"`
	Data       []byte    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Settings struct {
	InactivityTimeoutMs int `json:"inactivity_timeout_ms"`
	ImageDurationMs     int `json:"image_duration_ms"`
}

func (s Settings) InactivityTimeout() time.Duration {
	return time.Duration(s.InactivityTimeoutMs) * time.Millisecond
}

func (s Settings) ImageDuration() time.Duration {
	return time.Duration(s.ImageDurationMs) * time.Millisecond
}
