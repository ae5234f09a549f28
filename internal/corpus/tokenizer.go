package corpus

import (
	"strings"
	"unicode"
)

// SplitIdentifier breaks an identifier into lowercase terms. It splits on
// underscores and dots, then starts a new term at every uppercase letter:
//
//	SplitIdentifier("SpawnActorFromClass") // [spawn actor from class]
//	SplitIdentifier("unreal.EditorLevelLibrary.spawn_actor")
//	// [unreal editor level library spawn actor]
//
// Runs of capitals split per letter, so "HTTPServer" yields
// [h t t p server].
func SplitIdentifier(identifier string) []string {
	parts := strings.FieldsFunc(identifier, func(r rune) bool {
		return r == '_' || r == '.'
	})

	var tokens []string
	for _, part := range parts {
		var spaced strings.Builder
		spaced.Grow(len(part) + 8)
		for _, r := range part {
			if r >= 'A' && r <= 'Z' {
				spaced.WriteByte(' ')
			}
			spaced.WriteRune(r)
		}
		tokens = append(tokens, strings.Fields(strings.ToLower(spaced.String()))...)
	}
	return tokens
}

// TokenizeQuery splits a query on whitespace and each word as an identifier,
// so "SpawnActor location" matches indexed terms [spawn actor location].
func TokenizeQuery(query string) []string {
	var tokens []string
	for _, word := range strings.Fields(query) {
		tokens = append(tokens, SplitIdentifier(word)...)
	}
	return tokens
}

// TokenizeProse lowercases free text and splits it on whitespace only.
// Punctuation stays attached to words.
func TokenizeProse(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), unicode.IsSpace)
}
