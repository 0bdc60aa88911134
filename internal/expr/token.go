package expr

import (
	"strconv"
	"strings"
	"unicode"
)

// TokenKind classifies a token produced by Tokenize.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenOperator
	TokenGroup
	TokenFunc
	TokenUnknown
)

// String returns a short label for the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenOperator:
		return "operator"
	case TokenGroup:
		return "group"
	case TokenFunc:
		return "func"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of an arithmetic string.
type Token struct {
	Kind TokenKind
	Text string
	// Pos is the byte offset of the token in the source string.
	Pos int
}

const (
	funcSqrt = "sqrt"
	funcAbs  = "abs"
)

// Tokenize splits s into a flat token stream. It never fails: characters
// and words outside the grammar become TokenUnknown tokens, which the
// parser reports.
//
// Besides the core grammar it accepts a few spellings common in quiz
// text: "%" (divide by 100), the word "of" (multiply), and the
// typographic operators × ÷ − √.
func Tokenize(s string) []Token {
	var toks []Token
	runes := []rune(s)
	offsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		offsets[i] = off
		off += len(string(r))
	}
	offsets[len(runes)] = off

	for i := 0; i < len(runes); {
		r := runes[i]
		pos := offsets[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9' || r == '.':
			j := i
			for j < len(runes) && (runes[j] >= '0' && runes[j] <= '9' || runes[j] == '.') {
				j++
			}
			text := string(runes[i:j])
			kind := TokenNumber
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				kind = TokenUnknown
			}
			toks = append(toks, Token{Kind: kind, Text: text, Pos: pos})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			word := strings.ToLower(string(runes[i:j]))
			switch word {
			case funcSqrt:
				toks = append(toks, Token{Kind: TokenFunc, Text: funcSqrt, Pos: pos})
			case "of":
				toks = append(toks, Token{Kind: TokenOperator, Text: "*", Pos: pos})
			default:
				toks = append(toks, Token{Kind: TokenUnknown, Text: string(runes[i:j]), Pos: pos})
			}
			i = j
		default:
			toks = append(toks, symbolTokens(r, pos)...)
			i++
		}
	}
	return toks
}

func symbolTokens(r rune, pos int) []Token {
	switch r {
	case '+', '-', '*', '/', '^':
		return []Token{{Kind: TokenOperator, Text: string(r), Pos: pos}}
	case '×':
		return []Token{{Kind: TokenOperator, Text: "*", Pos: pos}}
	case '÷':
		return []Token{{Kind: TokenOperator, Text: "/", Pos: pos}}
	case '−':
		return []Token{{Kind: TokenOperator, Text: "-", Pos: pos}}
	case '√':
		return []Token{{Kind: TokenFunc, Text: funcSqrt, Pos: pos}}
	case '%':
		return []Token{
			{Kind: TokenOperator, Text: "/", Pos: pos},
			{Kind: TokenNumber, Text: "100", Pos: pos},
		}
	case '(', ')', '{', '}', '|':
		return []Token{{Kind: TokenGroup, Text: string(r), Pos: pos}}
	default:
		return []Token{{Kind: TokenUnknown, Text: string(r), Pos: pos}}
	}
}
