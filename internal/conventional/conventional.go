// Package conventional defines the conventional commit type taxonomy and the
// grammar every finalized commit message must satisfy:
//
//	type(scope): description
//
// where type is one of Types and scope matches [\w-]+.
package conventional

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
)

// Types is the ordered set of valid commit types.
var Types = []string{
	"feat",
	"fix",
	"chore",
	"docs",
	"style",
	"refactor",
	"perf",
	"test",
	"build",
	"ci",
	"revert",
}

var (
	messagePattern = regexp.MustCompile(`^(` + strings.Join(Types, "|") + `)\([\w-]+\): .+$`)

	invalidScopeChars = regexp.MustCompile(`[^\w-]+`)
	repeatedHyphens   = regexp.MustCompile(`-{2,}`)
)

// IsValidType reports whether t is a member of Types.
func IsValidType(t string) bool {
	return slices.Contains(Types, t)
}

// Validate checks message against the conventional commit grammar.
// It returns a *errors.FormatError when the message does not conform.
func Validate(message string) error {
	if !messagePattern.MatchString(message) {
		return gitwipErrors.NewFormatError(message,
			fmt.Sprintf("expected type(scope): title, valid types: %s", strings.Join(Types, ", ")))
	}
	return nil
}

// Format builds "type(scope): title" from user supplied parts.
//
// The scope is normalized with NormalizeScope and the title has its
// whitespace collapsed, so a successful result always passes Validate.
func Format(commitType, scope, title string) (string, error) {
	commitType = strings.TrimSpace(commitType)
	if !IsValidType(commitType) {
		return "", gitwipErrors.NewFormatError(commitType,
			fmt.Sprintf("invalid commit type, valid types: %s", strings.Join(Types, ", ")))
	}

	normalized := NormalizeScope(scope)
	if normalized == "" {
		return "", gitwipErrors.NewFormatError(scope, "scope is required")
	}

	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return "", gitwipErrors.NewFormatError("", "title is required")
	}

	return fmt.Sprintf("%s(%s): %s", commitType, normalized, title), nil
}

// NormalizeScope maps s onto the scope alphabet [A-Za-z0-9_-]. Runs of other
// characters become a single hyphen and leading or trailing hyphens are
// dropped. The result is empty when s has no usable characters.
func NormalizeScope(s string) string {
	s = invalidScopeChars.ReplaceAllString(strings.TrimSpace(s), "-")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
