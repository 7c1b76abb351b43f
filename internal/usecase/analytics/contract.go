package analytics

// Tokenizer extracts content-word tokens from Japanese speech text.
type Tokenizer interface {
	Tokenize(text string) []string
}
