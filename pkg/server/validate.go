package server

import (
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

const (
	minQuestionLength = 3
	maxQuestionLength = 1000
	minPasswordLength = 8
	maxPageSize       = 100
	defaultPageSize   = 10
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitPattern     = regexp.MustCompile(`\d`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
)

// validateEmail returns a client-facing message when the email is unusable,
// or "" when it passes.
func validateEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Must be a valid email address"
	}
	return ""
}

// validatePassword enforces the registration password policy.
func validatePassword(password string) string {
	switch {
	case password == "":
		return "Password is required"
	case len(password) < minPasswordLength:
		return "Password must be at least 8 characters long"
	case !digitPattern.MatchString(password):
		return "Password must contain at least one number"
	case !lowercasePattern.MatchString(password):
		return "Password must contain at least one lowercase letter"
	case !uppercasePattern.MatchString(password):
		return "Password must contain at least one uppercase letter"
	}
	return ""
}

// validateQuestionContent expects content already trimmed of whitespace.
func validateQuestionContent(content string) string {
	if content == "" {
		return "Question content is required"
	}
	if len(content) < minQuestionLength || len(content) > maxQuestionLength {
		return "Question must be between 3 and 1000 characters"
	}
	return ""
}

func isUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

// parsePagination reads page and limit query values, applying defaults for
// absent ones. A non-empty message means the input was rejected.
func parsePagination(pageRaw, limitRaw string) (page, limit int, message string) {
	page, limit = 1, defaultPageSize

	if pageRaw != "" {
		n, err := strconv.Atoi(pageRaw)
		if err != nil || n < 1 {
			return 0, 0, "Page must be a positive integer"
		}
		page = n
	}

	if limitRaw != "" {
		n, err := strconv.Atoi(limitRaw)
		if err != nil || n < 1 || n > maxPageSize {
			return 0, 0, "Limit must be between 1 and 100"
		}
		limit = n
	}

	return page, limit, ""
}
