package lexer

import (
	"strings"

	"github.com/LaBatata101/python-lsp/python/token"
)

// lexNumber scans a numeric literal starting at a digit or at a '.' followed by a digit.
// The whole lexeme becomes one token even when it is malformed.
func (l *Lexer) lexNumber() {
	start := l.cur.Position()
	kind := token.NumberDecimal

	if l.cur.Current() == '0' {
		switch l.cur.Peek(1) {
		case 'b', 'B':
			kind = token.NumberBinary
		case 'o', 'O':
			kind = token.NumberOctal
		case 'x', 'X':
			kind = token.NumberHex
		}
	}

	if kind != token.NumberDecimal {
		l.cur.Advance(2)
		l.cur.AdvanceWhile(func(r rune) bool { return isRadixDigit(kind, r) || r == '_' })
	} else {
		l.cur.AdvanceWhile(isDecimalOrUnderscore)
		if l.cur.Current() == '.' {
			kind = token.NumberFloat
			l.cur.Advance(1)
			l.cur.AdvanceWhile(isDecimalOrUnderscore)
		}
		if r := l.cur.Current(); r == 'e' || r == 'E' {
			kind = token.NumberFloat
			l.cur.Advance(1)
			if r := l.cur.Current(); r == '+' || r == '-' {
				l.cur.Advance(1)
			}
			l.cur.AdvanceWhile(isDecimalOrUnderscore)
		}
		if l.cur.AdvanceWhile(func(r rune) bool { return r == 'j' || r == 'J' }) > 0 {
			kind = token.NumberImaginary
		}
	}

	// Identifier characters glued to a number belong to the same malformed literal
	trailing := l.cur.AdvanceWhile(isIDContinue) > 0

	end := l.cur.Position()
	lexeme, _ := l.cur.Slice(start.Offset, end.Offset)
	span := token.NewSpan(start, end)

	if msg, ok := validateNumber(kind, lexeme); !ok {
		l.diags.Syntax(span, "%s", msg)
	}
	if trailing {
		kind = token.NumberInvalid
	}

	l.emit(token.Token{
		Kind:       token.Number,
		Value:      lexeme,
		NumberKind: kind,
		Span:       span,
		Start:      start.Offset,
		End:        end.Offset,
	})
}

func validateNumber(kind token.NumberKind, lexeme string) (string, bool) {
	switch kind {
	case token.NumberBinary, token.NumberOctal, token.NumberHex:
		if !validRadixLiteral(kind, lexeme) {
			return "invalid " + kind.String() + " literal", false
		}
	case token.NumberDecimal:
		if !ValidDecimal(lexeme) || hasLeadingZeros(lexeme) {
			return "invalid decimal literal", false
		}
	case token.NumberFloat, token.NumberImaginary:
		if !ValidFloat(lexeme) {
			return "invalid " + kind.String() + " literal", false
		}
		for _, run := range digitRuns(lexeme) {
			if !ValidDecimal(run) {
				return "invalid " + kind.String() + " literal", false
			}
		}
	}
	return "", true
}

// ValidDecimal reports whether s is a run of decimal digits with underscores
// only strictly between digits, ignoring one optional leading sign.
func ValidDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	if s == "" {
		return false
	}
	prevUnderscore := true
	for _, r := range s {
		switch {
		case isDecimal(r):
			prevUnderscore = false
		case r == '_':
			if prevUnderscore {
				return false
			}
			prevUnderscore = true
		default:
			return false
		}
	}
	return !prevUnderscore
}

func hasLeadingZeros(s string) bool {
	digits := strings.ReplaceAll(s, "_", "")
	return len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "0") != ""
}

func validRadixLiteral(kind token.NumberKind, s string) bool {
	body := s[2:]
	if body == "" || strings.HasSuffix(body, "_") || strings.Contains(body, "__") {
		return false
	}
	for _, r := range body {
		if r != '_' && !isRadixDigit(kind, r) {
			return false
		}
	}
	return strings.Trim(body, "_") != ""
}

// digitRuns splits a float lexeme into the digit runs around '.', the exponent and the suffix.
func digitRuns(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '.', 'e', 'E', '+', '-', 'j', 'J':
			return true
		}
		return false
	})
}

type floatState int

const (
	floatStart floatState = iota
	floatIntDigits
	floatLeadingDot
	floatDotSeen
	floatFracDigits
	floatExpMarker
	floatExpSign
	floatExpDigits
	floatImagSuffix
	floatReject
)

func (s floatState) accepting() bool {
	switch s {
	case floatIntDigits, floatDotSeen, floatFracDigits, floatExpDigits, floatImagSuffix:
		return true
	}
	return false
}

func (s floatState) next(r rune) floatState {
	digit := isDecimal(r)
	switch s {
	case floatStart:
		switch {
		case digit:
			return floatIntDigits
		case r == '.':
			return floatLeadingDot
		}
	case floatIntDigits:
		switch {
		case digit || r == '_':
			return floatIntDigits
		case r == '.':
			return floatDotSeen
		case r == 'e' || r == 'E':
			return floatExpMarker
		case r == 'j' || r == 'J':
			return floatImagSuffix
		}
	case floatLeadingDot:
		if digit {
			return floatFracDigits
		}
	case floatDotSeen:
		switch {
		case digit:
			return floatFracDigits
		case r == 'e' || r == 'E':
			return floatExpMarker
		case r == 'j' || r == 'J':
			return floatImagSuffix
		}
	case floatFracDigits:
		switch {
		case digit || r == '_':
			return floatFracDigits
		case r == 'e' || r == 'E':
			return floatExpMarker
		case r == 'j' || r == 'J':
			return floatImagSuffix
		}
	case floatExpMarker:
		switch {
		case digit:
			return floatExpDigits
		case r == '+' || r == '-':
			return floatExpSign
		}
	case floatExpSign:
		if digit {
			return floatExpDigits
		}
	case floatExpDigits:
		switch {
		case digit || r == '_':
			return floatExpDigits
		case r == 'j' || r == 'J':
			return floatImagSuffix
		}
	}
	// floatImagSuffix is terminal: anything after the suffix rejects, "1jj" included
	return floatReject
}

// ValidFloat runs the float/imaginary acceptor over s.
// Underscore placement inside each digit run is checked separately by ValidDecimal.
func ValidFloat(s string) bool {
	state := floatStart
	for _, r := range s {
		state = state.next(r)
		if state == floatReject {
			return false
		}
	}
	return state.accepting()
}

func isDecimal(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDecimalOrUnderscore(r rune) bool {
	return isDecimal(r) || r == '_'
}

func isRadixDigit(kind token.NumberKind, r rune) bool {
	switch kind {
	case token.NumberBinary:
		return r == '0' || r == '1'
	case token.NumberOctal:
		return r >= '0' && r <= '7'
	case token.NumberHex:
		return isDecimal(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
	return isDecimal(r)
}
