package stats

// KeywordCount is a token with its occurrence count across speech texts.
type KeywordCount struct {
	token string
	count int
}

// NewKeywordCount creates a keyword count.
func NewKeywordCount(token string, count int) KeywordCount {
	return KeywordCount{token: token, count: count}
}

// Token returns the normalized token.
func (k KeywordCount) Token() string { return k.token }

// Count returns the occurrence count.
func (k KeywordCount) Count() int { return k.count }
