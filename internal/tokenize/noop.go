package tokenize

// Noop extracts no tokens. It stands in when morphological analysis is
// disabled; keyword analytics then degrade to empty results.
type Noop struct{}

// Tokenize always returns nil.
func (Noop) Tokenize(string) []string { return nil }
