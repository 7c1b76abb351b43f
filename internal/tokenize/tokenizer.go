// Package tokenize extracts content-word tokens from Japanese speech text
// via morphological analysis.
package tokenize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"golang.org/x/text/width"
)

// DefaultMinTokenLength is the minimum kept token length in runes.
const DefaultMinTokenLength = 2

// Content-word part-of-speech classes kept during extraction. Sub-classes
// listed in dropSubPOS are excluded even when the primary class matches.
var (
	keepPOS = map[string]struct{}{
		"名詞":  {},
		"動詞":  {},
		"形容詞": {},
	}
	dropSubPOS = map[string]struct{}{
		"代名詞": {},
		"数":   {},
		"接尾":  {},
	}
)

// Config tunes token filtering.
type Config struct {
	// MinTokenLength drops tokens shorter than this many runes.
	// Zero means DefaultMinTokenLength.
	MinTokenLength int
	// ExtraStopWords extends the built-in stop-word set.
	ExtraStopWords []string
}

// Tokenizer extracts normalized content words using the IPA dictionary.
// The embedded dictionary makes extraction deterministic: the same text
// always yields the same token sequence.
type Tokenizer struct {
	tok    *tokenizer.Tokenizer
	minLen int
	stop   map[string]struct{}
}

// New creates a tokenizer backed by the bundled IPA dictionary.
func New(cfg Config) (*Tokenizer, error) {
	tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to build tokenizer: %w", err)
	}

	minLen := cfg.MinTokenLength
	if minLen <= 0 {
		minLen = DefaultMinTokenLength
	}

	stop := make(map[string]struct{}, len(defaultStopWords)+len(cfg.ExtraStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}
	for _, w := range cfg.ExtraStopWords {
		if w = strings.TrimSpace(w); w != "" {
			stop[w] = struct{}{}
		}
	}

	return &Tokenizer{tok: tok, minLen: minLen, stop: stop}, nil
}

// Tokenize returns content-word tokens in surface order. Verbs are reduced
// to their base form; tokens that are too short, digit-only, hiragana-only
// or stop words are dropped.
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	for _, tk := range t.tok.Tokenize(text) {
		features := tk.Features()
		if len(features) == 0 {
			continue
		}
		if _, ok := keepPOS[features[0]]; !ok {
			continue
		}
		if len(features) > 1 {
			if _, drop := dropSubPOS[features[1]]; drop {
				continue
			}
		}

		word := tk.Surface
		if features[0] == "動詞" && len(features) >= 7 && features[6] != "*" {
			word = features[6]
		}
		word = normalizeToken(word)

		if utf8.RuneCountInString(word) < t.minLen {
			continue
		}
		if isDigits(word) || isHiragana(word) {
			continue
		}
		if _, ok := t.stop[word]; ok {
			continue
		}
		out = append(out, word)
	}
	return out
}

// normalizeToken folds character width and lowercases, so ＮＨＫ and NHK
// count as the same token.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(width.Fold.String(s)))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isHiragana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'ぁ' || r > 'ん' {
			return false
		}
	}
	return true
}
