package domain

import "strings"

// CodeAlphabet excludes I, O, 0 and 1.
const (
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 4
)

// NormalizeCode makes room code lookups case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func IsValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(CodeAlphabet, r) {
			return false
		}
	}
	return true
}
