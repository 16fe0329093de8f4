package grammar

import "strings"

// TokenKind identifies how a token is expanded
type TokenKind int

const (
	TokenEmpty TokenKind = iota
	TokenNonterminal
	TokenPunctuated
	TokenCompound
	TokenTerminal
)

func (k TokenKind) String() string {
	switch k {
	case TokenEmpty:
		return "empty"
	case TokenNonterminal:
		return "nonterminal"
	case TokenPunctuated:
		return "punctuated"
	case TokenCompound:
		return "compound"
	case TokenTerminal:
		return "terminal"
	}
	return "unknown"
}

// trailing punctuation kept outside of nonterminal expansion, in match order
const punctuation = ".?!,"

// Token is a classified piece of a production
type Token struct {
	Kind TokenKind
	Text string

	// Punctuated tokens
	Inner  string
	Suffix byte

	// Compound tokens
	Parts []string
}

// SplitWords splits text on single spaces. Empty words between or before
// spaces are kept, trailing empty words are dropped. At least one word is
// always returned.
func SplitWords(text string) []string {
	words := strings.Split(text, " ")
	end := len(words)
	for end > 1 && words[end-1] == "" {
		end--
	}
	return words[:end]
}

// Classify determines the kind of a token. The first matching kind wins:
// empty, bare nonterminal, trailing punctuation, compound, terminal.
func Classify(text string) Token {
	tok := Token{Text: text}

	switch {
	case text == "":
		tok.Kind = TokenEmpty
	case IsNonterminal(text):
		tok.Kind = TokenNonterminal
	case strings.IndexByte(punctuation, text[len(text)-1]) >= 0:
		tok.Kind = TokenPunctuated
		tok.Inner = text[:len(text)-1]
		tok.Suffix = text[len(text)-1]
	case strings.Contains(text, "<"):
		parts := SplitWords(text)
		if len(parts) == 1 && parts[0] == text {
			// Something like "<a>b": no further split possible
			tok.Kind = TokenTerminal
			break
		}
		tok.Kind = TokenCompound
		tok.Parts = parts
	default:
		tok.Kind = TokenTerminal
	}

	return tok
}
