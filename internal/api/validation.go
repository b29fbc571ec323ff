package api

import (
	"strings"

	"github.com/mnemonic-fyi/mnemonic/internal/domain"
)

const (
	maxInputLength = 1000
	minQueryLength = 2
	maxQueryLength = 500
	minWorkspaceID = 5
)

// SanitizeInput trims whitespace, strips angle brackets, and caps length.
func SanitizeInput(input string) string {
	sanitized := strings.TrimSpace(input)
	sanitized = strings.ReplaceAll(sanitized, "<", "")
	sanitized = strings.ReplaceAll(sanitized, ">", "")
	if len(sanitized) > maxInputLength {
		sanitized = sanitized[:maxInputLength]
	}
	return sanitized
}

// ValidateQuery checks a search query after sanitization.
func ValidateQuery(query string) (string, error) {
	sanitized := SanitizeInput(query)

	if len(sanitized) < minQueryLength {
		return "", domain.ErrEmptyQuery
	}
	if len(sanitized) > maxQueryLength {
		return "", domain.ErrQueryTooLong
	}

	return sanitized, nil
}

// ValidateWorkspaceID checks a workspace identifier.
func ValidateWorkspaceID(workspaceID string) (string, error) {
	sanitized := SanitizeInput(workspaceID)

	if sanitized == "" {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "Workspace ID is required", domain.ErrMissingField)
	}
	if len(sanitized) < minWorkspaceID {
		return "", domain.ErrShortWorkspace
	}

	return sanitized, nil
}

// ValidateChannelID checks a Slack channel identifier.
func ValidateChannelID(channelID string) (string, error) {
	sanitized := SanitizeInput(channelID)

	if sanitized == "" {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "Channel ID is required", domain.ErrMissingField)
	}
	if !strings.HasPrefix(sanitized, "C") && !strings.HasPrefix(sanitized, "G") {
		return "", domain.ErrInvalidChannel
	}

	return sanitized, nil
}
