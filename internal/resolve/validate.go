package resolve

import (
	"net"
	"regexp"
	"strings"
	"unicode"
)

// Regex for a single DNS label: letters, digits and inner hyphens,
// no leading or trailing hyphen.
var labelRegex = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)

// IsValidHostAddr reports whether s is a dotted-decimal IPv4 address or a
// plausible DNS name.
func IsValidHostAddr(s string) bool {
	if s == "" {
		return false
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.To4() != nil
	}
	for _, label := range strings.Split(s, ".") {
		if !labelRegex.MatchString(label) {
			return false
		}
	}
	return true
}

// IsValidConnection reports whether s has the user@host shape: exactly one
// @, a non-empty user free of colons and whitespace, and a host part that
// passes IsValidHostAddr. Exposed for the CRUD commands so bad connection
// strings are rejected before they reach the config file.
func IsValidConnection(s string) bool {
	user, host, ok := strings.Cut(s, "@")
	if !ok || user == "" || host == "" {
		return false
	}
	if strings.Contains(host, "@") {
		return false
	}
	if strings.Contains(user, ":") || strings.ContainsFunc(user, unicode.IsSpace) {
		return false
	}
	return IsValidHostAddr(host)
}

// IsValidPort reports whether port is within range. Flag parsing already
// enforces the uint16 width; this guards the zero value.
func IsValidPort(port int) bool {
	return port > 0 && port <= 65535
}
