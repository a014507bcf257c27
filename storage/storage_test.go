package storage

import (
	"strings"
	"testing"
)

func TestAvatarExtension(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
		ok          bool
	}{
		{"image/png", ".png", true},
		{"IMAGE/JPEG; charset=binary", ".jpg", true},
		{"image/webp", ".webp", true},
		{"application/pdf", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got, ok := AvatarExtension(tt.contentType)
			if got != tt.want || ok != tt.ok {
				t.Errorf("AvatarExtension(%q) = %q, %v; want %q, %v", tt.contentType, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestAvatarKeyIsUnique(t *testing.T) {
	a, b := AvatarKey(5, ".png"), AvatarKey(5, ".png")
	if a == b {
		t.Fatal("AvatarKey returned the same key twice")
	}
	if !strings.HasPrefix(a, "avatars/member-5/") || !strings.HasSuffix(a, ".png") {
		t.Errorf("unexpected key %q", a)
	}
}

func TestPublicURLRoundTrip(t *testing.T) {
	base := "https://cdn.example.com/league/"
	full := publicURL(base, "/avatars/member-1/x.png")
	if full != "https://cdn.example.com/league/avatars/member-1/x.png" {
		t.Fatalf("publicURL = %q", full)
	}
	key, ok := keyFromURL(base, full)
	if !ok || key != "avatars/member-1/x.png" {
		t.Fatalf("keyFromURL = %q, %v", key, ok)
	}
	if _, ok := keyFromURL(base, "https://elsewhere.example.com/a.png"); ok {
		t.Error("foreign URL should not resolve to a key")
	}
	if publicURL("", "k") != "" {
		t.Error("empty base should give empty URL")
	}
}
