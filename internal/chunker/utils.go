package chunker

import (
	"crypto/sha256"
	"fmt"
	"strconv"
)

// CreateChunkID derives a stable identifier from the chunk position and text.
func CreateChunkID(source string, index int, content string) string {
	hash := sha256.Sum256([]byte(source + "#" + strconv.Itoa(index) + "\x00" + content))
	return fmt.Sprintf("%x", hash[:8])
}

// GetFirstNChars returns the first n characters of text.
func GetFirstNChars(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// GetLastNChars returns the last n characters of text.
func GetLastNChars(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
