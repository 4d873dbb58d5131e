package animals

import "strings"

const ExcerptWords = 20

// Excerpt corta text a las primeras n palabras y agrega "..." si recortó.
func Excerpt(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + "..."
}
