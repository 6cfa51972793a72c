// Package phrase folds a flat Word sequence into a Token sequence,
// recognising the language's fixed multi-word idioms and coalescing
// runs of unit numerals into a single numeric literal.
//
// Matching is a deterministic dispatch on a small fixed vocabulary,
// not a general-purpose grammar: each idiom is a hand-written
// continuation off the Word that introduces it.
package phrase

import (
	"fmt"
	"strconv"

	"github.com/skx/nimi-compiler/lexer"
	"github.com/skx/nimi-compiler/token"
)

// numeralWeight gives the arithmetic weight of each unit numeral.
var numeralWeight = map[token.Kind]int{
	token.WAN:  1,
	token.TU:   2,
	token.LUKA: 5,
}

// Assembler walks a Word sequence with a single cursor, emitting Tokens.
type Assembler struct {
	l    *lexer.Lexer
	cur  token.Word
	next token.Word
}

// New creates an Assembler reading Words from l.
func New(l *lexer.Lexer) *Assembler {
	a := &Assembler{l: l}
	a.cur = a.l.NextWord()
	a.next = a.l.NextWord()
	return a
}

func (a *Assembler) advance() {
	a.cur = a.next
	a.next = a.l.NextWord()
}

// Assemble consumes the whole Word sequence and returns the folded
// Token sequence, or the first fatal error encountered.
func (a *Assembler) Assemble() ([]token.Token, error) {
	var out []token.Token

	for a.cur.Kind != token.EOF {

		if a.cur.Kind == token.ERROR {
			return nil, fmt.Errorf("phrase: %s", a.cur.Literal)
		}

		switch a.cur.Kind {

		case token.O:
			tok, err := a.assembleO()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)

		case token.TENPO:
			tok, err := a.assembleTenpo()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)

		case token.LI:
			tok, err := a.assembleLi()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)

		case token.WAN, token.TU, token.LUKA:
			out = append(out, a.foldNumeral())

		default:
			out = append(out, a.promote())
			a.advance()
		}
	}

	return out, nil
}

// promote directly carries the current Word through as a Token of the
// same Kind.
func (a *Assembler) promote() token.Token {
	return token.Token{Kind: a.cur.Kind, Literal: a.cur.Literal, Count: a.cur.Count}
}

// assembleO recognises the five idioms beginning with "o": the
// return-from-program introducer ("o tawa"), the variable-declaration
// introducer ("o sin e"), the return-from-function introducer
// ("o weka"), the block terminator ("o pini"), and the call introducer
// ("o <identifier>"), which leaves the callee identifier unconsumed for
// the parser.
func (a *Assembler) assembleO() (token.Token, error) {
	a.advance() // consume "o"

	switch a.cur.Kind {
	case token.TAWA:
		a.advance()
		return token.Token{Kind: token.RETURN_PROGRAM}, nil

	case token.SIN:
		a.advance()
		if a.cur.Kind != token.E {
			return token.Token{}, fmt.Errorf("phrase: expected %q after \"o sin\", got %q", token.E, a.cur.Kind)
		}
		a.advance()
		return token.Token{Kind: token.VAR_DECL}, nil

	case token.WEKA:
		a.advance()
		return token.Token{Kind: token.RETURN_FUNC}, nil

	case token.PINI:
		a.advance()
		return token.Token{Kind: token.BLOCK_END}, nil

	case token.IDENT:
		return token.Token{Kind: token.CALL_INTRO}, nil

	default:
		return token.Token{}, fmt.Errorf("phrase: unexpected %q after \"o\"", a.cur.Kind)
	}
}

// assembleTenpo recognises the conditional introducer ("tenpo pi") and
// the reserved unbounded-loop introducer ("tenpo ale pi").
func (a *Assembler) assembleTenpo() (token.Token, error) {
	a.advance() // consume "tenpo"

	switch a.cur.Kind {
	case token.PI:
		a.advance()
		return token.Token{Kind: token.COND_INTRO}, nil

	case token.ALE:
		a.advance()
		if a.cur.Kind != token.PI {
			return token.Token{}, fmt.Errorf("phrase: expected %q after \"tenpo ale\", got %q", token.PI, a.cur.Kind)
		}
		a.advance()
		return token.Token{Kind: token.LOOP_INTRO}, nil

	default:
		return token.Token{}, fmt.Errorf("phrase: unexpected %q after \"tenpo\"", a.cur.Kind)
	}
}

// assembleLi recognises the four idioms beginning with "li": the
// assignment operator ("li kama sama"), the parameter-list introducer
// ("li kepeken"), the function-body introducer ("li pali e ni"), and
// the function-return-type introducer ("li pana e").
func (a *Assembler) assembleLi() (token.Token, error) {
	a.advance() // consume "li"

	switch a.cur.Kind {
	case token.KAMA:
		a.advance()
		if a.cur.Kind != token.SAMA {
			return token.Token{}, fmt.Errorf("phrase: expected %q after \"li kama\", got %q", token.SAMA, a.cur.Kind)
		}
		a.advance()
		return token.Token{Kind: token.ASSIGN_OP}, nil

	case token.KEPEKEN:
		a.advance()
		return token.Token{Kind: token.PARAM_LIST_INTRO}, nil

	case token.PALI:
		a.advance()
		if a.cur.Kind != token.E {
			return token.Token{}, fmt.Errorf("phrase: expected %q after \"li pali\", got %q", token.E, a.cur.Kind)
		}
		a.advance()
		if a.cur.Kind != token.NI {
			return token.Token{}, fmt.Errorf("phrase: expected %q after \"li pali e\", got %q", token.NI, a.cur.Kind)
		}
		a.advance()
		return token.Token{Kind: token.BODY_INTRO}, nil

	case token.PANA:
		a.advance()
		if a.cur.Kind != token.E {
			return token.Token{}, fmt.Errorf("phrase: expected %q after \"li pana\", got %q", token.E, a.cur.Kind)
		}
		a.advance()
		return token.Token{Kind: token.RETTYPE_INTRO}, nil

	default:
		return token.Token{}, fmt.Errorf("phrase: unexpected %q after \"li\"", a.cur.Kind)
	}
}

// foldNumeral consumes the maximal run of wan/tu/luka words starting at
// the cursor, summing their weights into a single NUMBER token.
func (a *Assembler) foldNumeral() token.Token {
	sum := 0
	for {
		w, ok := numeralWeight[a.cur.Kind]
		if !ok {
			break
		}
		sum += w
		a.advance()
	}
	return token.Token{Kind: token.NUMBER, Literal: strconv.Itoa(sum)}
}
