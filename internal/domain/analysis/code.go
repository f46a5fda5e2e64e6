package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CharLimit caps submitted code, roughly 3000-4000 model tokens.
const CharLimit = 10000

func CountChars(code string) int {
	return utf8.RuneCountInString(code)
}

// ValidateCode accepts non-blank code of at most CharLimit characters.
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrNoCode
	}
	if n := CountChars(code); n > CharLimit {
		return fmt.Errorf("%w: %d > %d characters", ErrCodeTooLong, n, CharLimit)
	}
	return nil
}
