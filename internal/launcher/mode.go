package launcher

import "fmt"

// Mode selects what happens after the dashboard starts.
type Mode string

const (
	// ModeDetached starts the dashboard and returns; the dashboard outlives the launcher.
	ModeDetached Mode = "detached"

	// ModeBlocking keeps the dashboard until the user acknowledges, then kills it.
	ModeBlocking Mode = "blocking"
)

// ParseMode converts a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDetached, ModeBlocking:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown launch mode %q (want %q or %q)", s, ModeDetached, ModeBlocking)
	}
}
