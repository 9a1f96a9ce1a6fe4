// Package validate holds request field validation shared across handlers.
package validate

import (
	"fmt"
	"regexp"
)

// Session ids are opaque but must stay URL-safe and bounded.
var sessionIDRx = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,128}$`)

func SessionID(v string) error {
	if v == "" {
		return fmt.Errorf("session id is required")
	}
	if !sessionIDRx.MatchString(v) {
		return fmt.Errorf("session id may only contain letters, digits, dot, underscore and hyphen (max 128)")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}
