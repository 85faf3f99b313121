package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAddArgs parses the arguments of /add.
// Format: <skin name...> [+charm] — a trailing "+charm" token requires a
// keychain attachment on matching listings.
func ParseAddArgs(args string) (string, bool, error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return "", false, fmt.Errorf("skin name is required")
	}

	charm := false
	if last := parts[len(parts)-1]; strings.EqualFold(last, "+charm") {
		charm = true
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return "", false, fmt.Errorf("skin name is required")
	}

	return strings.Join(parts, " "), charm, nil
}

// ParseIDArg extracts a numeric ID from a command argument string.
func ParseIDArg(args string) (int64, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, fmt.Errorf("watch ID is required")
	}
	id, err := strconv.ParseInt(strings.Fields(s)[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid watch ID %q", s)
	}
	return id, nil
}
