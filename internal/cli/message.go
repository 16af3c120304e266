package cli

import (
	"fmt"
	"strings"

	"github.com/caurus/cronto"
)

// parseMessageArgs converts command-line message arguments into a styled
// message. Each argument is one display row, "KEY", "KEY:VALUE", or
// "KEY:VALUE:STYLE" where STYLE is one of S (bold), K (black), B (blue),
// G (green), R (red); a style applies to both cells of its row. A VALUE
// may itself contain colons only when a STYLE follows: once the text after
// "KEY:" holds a colon, the segment after its last colon is always read as
// the style, and anything other than one of those letters is rejected.
func parseMessageArgs(args []string) (cronto.StyledMessage, error) {
	message := make(cronto.StyledMessage, 0, len(args))
	for _, arg := range args {
		key, rest, hasValue := strings.Cut(arg, ":")

		value := rest
		style := cronto.StyleNone
		if hasValue && strings.Contains(rest, ":") {
			i := strings.LastIndex(rest, ":")
			s, err := parseStyle(rest[i+1:])
			if err != nil {
				return nil, fmt.Errorf("row %q: %w", arg, err)
			}
			value, style = rest[:i], s
		}

		row := cronto.Row{{Text: key, Style: style}}
		if value != "" {
			row = append(row, cronto.Cell{Text: value, Style: style})
		}
		message = append(message, row)
	}
	return message, nil
}

func parseStyle(s string) (cronto.Style, error) {
	if len(s) != 1 {
		return cronto.StyleNone, fmt.Errorf("style %q must be a single letter (S, K, B, G, R)", s)
	}
	switch style := cronto.Style(s[0]); style {
	case cronto.StyleBold, cronto.StyleBlack, cronto.StyleBlue, cronto.StyleGreen, cronto.StyleRed:
		return style, nil
	default:
		return cronto.StyleNone, fmt.Errorf("unknown style %q (want S, K, B, G, or R)", s)
	}
}
