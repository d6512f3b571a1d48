// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package handle normalizes account identifiers (usernames and emails).
//
// # Usage
//
// Usernames and emails are unique case-insensitively. Every value is passed
// through this package before it is stored or looked up, so the database
// only ever sees the canonical form.
package handle

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// usernamePattern is the accepted shape of a canonical username.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// fold lowercases without locale-specific rules (no Turkish dotless i surprises).
var fold = cases.Lower(language.Und)

// Username returns the canonical form of a username.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFKC (full-width "ａｌｉｃｅ" becomes "alice").
// 3. Converts to lowercase.
func Username(s string) string {
	return fold.String(norm.NFKC.String(strings.TrimSpace(s)))
}

// Email returns the canonical form of an email address.
func Email(s string) string {
	return fold.String(norm.NFKC.String(strings.TrimSpace(s)))
}

// Valid reports whether a canonical username is acceptable.
func Valid(username string) bool {
	return usernamePattern.MatchString(username)
}
