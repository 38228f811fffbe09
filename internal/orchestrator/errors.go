package orchestrator

import "strings"

// errorMessage returns the displayable message of a fetch failure
func errorMessage(err error) string {
	if err == nil {
		return DefaultErrorMessage
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
