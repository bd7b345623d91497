package headless

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewAppliesTimeoutDefault(t *testing.T) {
	t.Parallel()

	renderer, err := New(Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer renderer.Close()

	if renderer.cfg.NavigationTimeout != defaultNavigationTimeout {
		t.Fatalf("expected default navigation timeout, got %v", renderer.cfg.NavigationTimeout)
	}
}

func TestNewKeepsConfiguredTimeout(t *testing.T) {
	t.Parallel()

	renderer, err := New(Config{NavigationTimeout: 2 * time.Second, BrowserPath: "/usr/bin/chromium-browser"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer renderer.Close()

	if renderer.cfg.NavigationTimeout != 2*time.Second {
		t.Fatalf("expected configured timeout, got %v", renderer.cfg.NavigationTimeout)
	}
}
