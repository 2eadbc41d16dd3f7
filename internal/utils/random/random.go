package random

import (
	"math/rand"
)

// GenerateRandomString draws length symbols from charset. Not for secrets.
func GenerateRandomString(charset string, length int) string {
	symbols := []rune(charset)
	if length <= 0 || len(symbols) == 0 {
		return ""
	}

	result := make([]rune, length)
	for i := range result {
		result[i] = symbols[rand.Intn(len(symbols))]
	}
	return string(result)
}
