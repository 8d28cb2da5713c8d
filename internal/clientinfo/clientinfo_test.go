package clientinfo

import (
	"context"
	"testing"
)

func TestWithClient(t *testing.T) {
	ctx := WithClient(context.Background(), "Firefox on macOS", "198.51.100.4", "single-session-auth")

	if got := Device(ctx); got != "Firefox on macOS" {
		t.Errorf("Device = %q", got)
	}
	if got := Address(ctx); got != "198.51.100.4" {
		t.Errorf("Address = %q", got)
	}
	if got := App(ctx); got != "single-session-auth" {
		t.Errorf("App = %q", got)
	}
}

func TestUnsetContext(t *testing.T) {
	ctx := context.Background()
	if Device(ctx) != "" || Address(ctx) != "" || App(ctx) != "" {
		t.Error("unset context should return empty strings")
	}
}
