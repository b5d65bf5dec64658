package validator

import (
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// File ids: Drive ids and local file names without path separators.
var fileIDRegex = regexp.MustCompile(`^[\p{L}\p{N} ._()\[\]-]{1,255}$`)

// IsValidFileID rejects empty ids, path traversal and separators.
func IsValidFileID(id string) bool {
	if id == "." || id == ".." || strings.Contains(id, "..") {
		return false
	}
	return fileIDRegex.MatchString(id)
}
