package voice

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

const DefaultDescription = "No description available"

type Voice struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	Description string `json:"description"`
}

func New(name, description string) Voice {
	if description == "" {
		description = DefaultDescription
	}

	return Voice{
		Name:        name,
		Language:    Language(name),
		Description: description,
	}
}

// Language derives the language code from a voice name,
// e.g. "en_GB" from "en_GB-jenny_dioco-medium".
func Language(name string) string {
	code, _, _ := strings.Cut(name, "-")
	return code
}

func ModelObject(name string) string {
	return "models/" + name + ".onnx"
}

func ConfigObject(name string) string {
	return "models/" + name + ".onnx.json"
}

func AudioObject(identity string) string {
	return "audio/" + identity + ".wav"
}

// OutputIdentity returns the deterministic key identifying the synthesis
// result for a (voice, text) pair. Identical inputs always map to the same
// identity, so repeated requests overwrite the same artifact and record.
func OutputIdentity(name, text string) string {
	sum := md5.Sum([]byte(text))
	return name + "_" + hex.EncodeToString(sum[:])
}

// Tokens lowercases the text, strips punctuation and returns the distinct
// words longer than two characters, in order of first occurrence.
func Tokens(text string) []string {
	var tokens []string

	seen := map[string]bool{}

	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})

		if len([]rune(word)) <= 2 {
			continue
		}

		if seen[word] {
			continue
		}

		seen[word] = true
		tokens = append(tokens, word)
	}

	return tokens
}
