package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotRenderable is returned by Regex if a pattern contains code points
// which cannot be written in lexmachine's regex syntax.
var ErrNotRenderable = errors.New("pattern not renderable as regex")

// Binding strength of pattern variants when rendered as regex.
const (
	precChoice = iota + 1
	precSeq
	precQuantity
	precCharset
)

// Regex renders p as a regular expression in the syntax of lexmachine.
// Only printable ASCII plus tab, newline and carriage return are supported.
func Regex(p Pattern) (string, error) {
	var b strings.Builder
	if err := writeRegex(&b, p, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func precedence(p Pattern) int {
	switch p.(type) {
	case Choice:
		return precChoice
	case Seq:
		return precSeq
	case Opt, Star, Plus:
		return precQuantity
	}
	return precCharset
}

func writeRegex(b *strings.Builder, p Pattern, outer int) error {
	paren := outer >= precedence(p)
	if paren {
		b.WriteByte('(')
	}
	var err error
	switch p := p.(type) {
	case Choice:
		for i, alt := range p.Alternatives {
			if i > 0 {
				b.WriteByte('|')
			}
			if err = writeRegex(b, alt, precChoice); err != nil {
				return err
			}
		}
	case Seq:
		for _, e := range p.Elements {
			if err = writeRegex(b, e, precSeq); err != nil {
				return err
			}
		}
	case Opt:
		err = writeQuantity(b, p.Sub, '?')
	case Star:
		err = writeQuantity(b, p.Sub, '*')
	case Plus:
		err = writeQuantity(b, p.Sub, '+')
	case Charset:
		err = writeCharset(b, p)
	}
	if err != nil {
		return err
	}
	if paren {
		b.WriteByte(')')
	}
	return nil
}

func writeQuantity(b *strings.Builder, sub Pattern, op byte) error {
	if err := writeRegex(b, sub, precQuantity); err != nil {
		return err
	}
	b.WriteByte(op)
	return nil
}

func writeCharset(b *strings.Builder, p Charset) error {
	if len(p.Ranges) == 0 {
		return fmt.Errorf("%w: empty charset", ErrNotRenderable)
	}
	if len(p.Ranges) == 1 && p.Ranges[0].Len() == 1 {
		s, err := regexCode(p.Ranges[0].Lo, false)
		b.WriteString(s)
		return err
	}
	b.WriteByte('[')
	for _, r := range p.Ranges {
		lo, err := regexCode(r.Lo, true)
		if err != nil {
			return err
		}
		b.WriteString(lo)
		if r.Len() == 1 {
			continue
		}
		hi, err := regexCode(r.Hi-1, true)
		if err != nil {
			return err
		}
		if r.Len() > 2 {
			b.WriteByte('-')
		}
		b.WriteString(hi)
	}
	b.WriteByte(']')
	return nil
}

func regexCode(c rune, inClass bool) (string, error) {
	switch c {
	case '\t':
		return `\t`, nil
	case '\n':
		return `\n`, nil
	case '\r':
		return `\r`, nil
	}
	if c < 0x20 || c >= 0x7f {
		return "", fmt.Errorf("%w: code point %U", ErrNotRenderable, c)
	}
	if isRegexWord(c) || c == ' ' {
		return string(c), nil
	}
	if inClass && !strings.ContainsRune(`\]^-[`, c) {
		return string(c), nil
	}
	return `\` + string(c), nil
}

func isRegexWord(c rune) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
