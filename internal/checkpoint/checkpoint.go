// Package checkpoint handles the fixed-prefix strings encoded in the
// printable QR artifacts. A scan payload that does not match the
// convention is invalid input to the scan flow, not an error anywhere
// else.
package checkpoint

import (
	"fmt"
	"regexp"
	"strings"
)

// Prefix is the fixed first segment of every checkpoint payload.
const Prefix = "sentinel"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Format builds the payload string for a location slug.
func Format(slug string) string {
	return Prefix + "-" + slug
}

// Parse extracts the location slug from a scanned payload. It fails on
// anything that does not carry the prefix or a well-formed slug.
func Parse(payload string) (string, error) {
	rest, ok := strings.CutPrefix(payload, Prefix+"-")
	if !ok {
		return "", fmt.Errorf("payload %q is not a checkpoint", payload)
	}
	if !slugPattern.MatchString(rest) {
		return "", fmt.Errorf("payload %q has a malformed location", payload)
	}
	return rest, nil
}

// Valid reports whether the payload is a well-formed checkpoint string.
func Valid(payload string) bool {
	_, err := Parse(payload)
	return err == nil
}

// Slugify turns a human location name into a checkpoint slug.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
