// Package validation contains the pure validators for credentials and ticket
// form input. All functions are deterministic, side-effect free, and return
// failures as data rather than errors.
package validation

import (
	"strings"
	"unicode"

	"github.com/kendallhq/managerpro/internal/models"
)

// symbols is the punctuation set accepted by the password strength check.
const symbols = `!@#$%^&*(),.?":{}|<>`

// Email reports whether s looks like local@domain.tld: a non-empty local
// part and domain without whitespace or '@', and a dot in the domain
// followed by a non-empty suffix.
func Email(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if strings.ContainsAny(local, " \t\n\r") {
		return false
	}
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(domain, " \t\n\r")
}

// Password checks password strength and returns one human-readable reason
// per failed check, in a fixed order: length, uppercase, lowercase, digit,
// symbol. An empty slice means the password is acceptable.
func Password(s string) []string {
	var reasons []string

	if len(s) < 8 {
		reasons = append(reasons, "At least 8 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		reasons = append(reasons, "One uppercase letter")
	}
	if !hasLower {
		reasons = append(reasons, "One lowercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "One number")
	}
	if !hasSymbol {
		reasons = append(reasons, "One special character")
	}

	return reasons
}

// ConfirmPassword returns a mismatch message unless the two strings are
// identical, in which case it returns "".
func ConfirmPassword(password, confirm string) string {
	if password != confirm {
		return "Passwords do not match."
	}
	return ""
}

// TicketForm validates a ticket draft and returns field-keyed error
// messages. An empty map means the draft is valid.
func TicketForm(draft models.TicketDraft) map[string]string {
	errs := make(map[string]string)

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		errs["title"] = "Title is required."
	} else if len(draft.Title) < 3 {
		errs["title"] = "Title must be at least 3 characters."
	}

	if draft.Status == "" {
		errs["status"] = "Status is required."
	} else if !models.ValidStatus(draft.Status) {
		errs["status"] = "Status must be one of: open, in_progress, closed."
	}

	if draft.Description != "" && len(draft.Description) < 5 {
		errs["description"] = "Description must be at least 5 characters if provided."
	}

	if draft.Priority != "" && len(draft.Priority) < 3 {
		errs["priority"] = "Priority must be at least 3 characters if provided."
	}

	return errs
}
