package util

import "testing"

func TestIsImageFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"animation.gif", true},
		{"shot.png", true},
		{"modern.webp", true},
		{"notes.txt", false},
		{"archive.tar.gz", false},
		{"noext", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsImageFile(tc.name); got != tc.want {
			t.Fatalf("IsImageFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
