package main

import (
	"fmt"
	"strings"
)

// parseLogin accepts a bare login or a Twitch channel URL and returns the
// normalized lowercase login. Logins are ASCII letters, digits, and
// underscores; anything else is rejected.
func parseLogin(arg string) (string, error) {
	login := strings.TrimSpace(arg)

	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(login, prefix) {
			login = strings.TrimPrefix(login, prefix)
			break
		}
	}
	for _, host := range []string{"www.twitch.tv/", "twitch.tv/"} {
		if strings.HasPrefix(login, host) {
			login = strings.TrimPrefix(login, host)
			break
		}
	}

	if login == "" || !validLogin(login) {
		return "", fmt.Errorf("invalid login or URL: %s", arg)
	}
	return strings.ToLower(login), nil
}

func validLogin(login string) bool {
	for _, r := range login {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

// dedupLogins lowercases and deduplicates logins preserving first-seen
// order.
func dedupLogins(logins []string) []string {
	seen := make(map[string]struct{}, len(logins))
	result := make([]string, 0, len(logins))
	for _, login := range logins {
		normalized := strings.ToLower(strings.TrimSpace(login))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result
}
