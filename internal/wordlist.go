package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseWordList normalizes a raw vocabulary: words are uppercased and
// deduplicated, keeping first-occurrence order; blanks and '#' comments are
// skipped. Words containing anything but letters are rejected.
func ParseWordList(raw []string) ([]string, error) {
	var words []string
	seen := make(map[string]bool)

	for _, line := range raw {
		word := strings.ToUpper(strings.TrimSpace(line))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		for _, r := range word {
			if r < 'A' || r > 'Z' {
				return nil, fmt.Errorf("word %s contains non-letter %q", word, r)
			}
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	return words, nil
}

// ParseWords reads a vocabulary with ParseWordList semantics, one word per
// line.
func ParseWords(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning words: %w", err)
	}
	return ParseWordList(lines)
}

// LoadWords reads a vocabulary file with ParseWords.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseWords(f)
}
