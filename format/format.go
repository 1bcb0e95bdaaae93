// Package format renders measure values with spreadsheet-style value format strings
// such as "#,##0.00", "0.0%", "$#,##0" or `0.0,"K"`.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/stsysd/calheat/model"
)

// maxDecimals is the highest precision humanize.FormatFloat can render.
const maxDecimals = 9

// Pattern is a parsed value format string.
type Pattern struct {
	prefix   string
	suffix   string
	decimals int
	grouping bool
	scale    int // number of trailing commas, each dividing by 1000
	percent  bool
}

// Parse compiles a value format string.
func Parse(s string) (*Pattern, error) {
	p := &Pattern{}
	var prefix, suffix strings.Builder

	runes := []rune(s)
	digits := false
	inDecimal := false
	closed := false
	pendingCommas := 0

	// literal text goes before the number until the first digit placeholder
	literal := func(text string) {
		if digits {
			if pendingCommas > 0 {
				p.scale += pendingCommas
				pendingCommas = 0
			}
			closed = true
			suffix.WriteString(text)
			return
		}
		prefix.WriteString(text)
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '0', '#':
			if closed {
				return nil, invalid(s, "more than one number section")
			}
			if pendingCommas > 0 {
				if inDecimal {
					return nil, invalid(s, "grouping separator inside decimals")
				}
				p.grouping = true
				pendingCommas = 0
			}
			digits = true
			if inDecimal {
				p.decimals++
			}
		case ',':
			if digits && !closed {
				pendingCommas++
			} else {
				literal(",")
			}
		case '.':
			if closed || inDecimal {
				literal(".")
				continue
			}
			if pendingCommas > 0 {
				p.grouping = true
				pendingCommas = 0
			}
			inDecimal = true
		case '%':
			p.percent = true
			literal("%")
		case '"':
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			if end >= len(runes) {
				return nil, invalid(s, "unterminated quoted literal")
			}
			literal(string(runes[i+1 : end]))
			i = end
		case '[':
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end >= len(runes) || end == i+1 || runes[i+1] != '$' {
				return nil, invalid(s, "unsupported bracket section")
			}
			symbol := string(runes[i+2 : end])
			// [$€-407] carries a locale id after the dash
			if idx := strings.Index(symbol, "-"); idx >= 0 {
				symbol = symbol[:idx]
			}
			literal(symbol)
			i = end
		case '\\':
			if i+1 < len(runes) {
				i++
				literal(string(runes[i]))
			}
		default:
			literal(string(r))
		}
	}

	if !digits {
		return nil, invalid(s, "no digit placeholder")
	}
	if pendingCommas > 0 {
		p.scale += pendingCommas
	}
	if p.decimals > maxDecimals {
		return nil, invalid(s, fmt.Sprintf("at most %d decimals are supported", maxDecimals))
	}

	p.prefix = prefix.String()
	p.suffix = suffix.String()
	return p, nil
}

func invalid(pattern, reason string) error {
	return model.NewValidationError(fmt.Sprintf("invalid format %q: %s", pattern, reason))
}

// Format renders v with the pattern.
func (p *Pattern) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return humanize.FormatFloat("", v)
	}

	if p.percent {
		v *= 100
	}
	for range p.scale {
		v /= 1000
	}

	pow := math.Pow10(p.decimals)
	abs := math.Round(math.Abs(v)*pow) / pow

	// humanize always inserts a thousands separator
	digits := strconv.FormatFloat(abs, 'f', p.decimals, 64)
	if p.grouping {
		digits = humanize.FormatFloat("#,###."+strings.Repeat("#", p.decimals), abs)
	}

	sign := ""
	if v < 0 && abs != 0 {
		sign = "-"
	}
	return sign + p.prefix + digits + p.suffix
}

// Format parses pattern and renders v in one step.
func Format(pattern string, v float64) (string, error) {
	p, err := Parse(pattern)
	if err != nil {
		return "", err
	}
	return p.Format(v), nil
}

// Default renders v with comma grouping and at most two decimals.
func Default(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}
