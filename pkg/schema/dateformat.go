package schema

import (
	"fmt"
	"strings"
)

// tokenLayouts maps pattern tokens to Go reference layout elements, longest
// first so YYYY wins over YY.
var tokenLayouts = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
}

var strftimeLayouts = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "1",
	'd': "2",
	'H': "15",
	'M': "4",
	'S': "5",
	'b': "Jan",
	'B': "January",
	'p': "PM",
	'I': "3",
	'%': "%",
}

// paddedLayouts replaces the one-or-two digit elements when the next
// directive follows without a separator, since unpadded runs of digits
// cannot be split.
var paddedLayouts = map[byte]string{
	'm': "01",
	'd': "02",
	'M': "04",
	'S': "05",
	'I': "03",
}

// DateLayout converts a date format to a Go time layout. Both token style
// (YYYY-MM-DD) and strftime style (%Y-%m-%d) are accepted. An empty format
// means DefaultDateFormat.
func DateLayout(format string) (string, error) {
	if format == "" {
		format = DefaultDateFormat
	}
	if strings.Contains(format, "%") {
		return strftimeLayout(format)
	}
	return tokenLayout(format)
}

func strftimeLayout(format string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			if err := checkLiteral(format[i:], format); err != nil {
				return "", err
			}
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("date format %q: trailing %%", format)
		}
		l, ok := strftimeLayouts[format[i]]
		if !ok {
			return "", fmt.Errorf("date format %q: unsupported directive %%%c", format, format[i])
		}
		if padded, ok := paddedLayouts[format[i]]; ok && i+1 < len(format) && format[i+1] == '%' {
			l = padded
		}
		sb.WriteString(l)
	}
	return sb.String(), nil
}

func tokenLayout(format string) (string, error) {
	var sb strings.Builder
	rest := format
outer:
	for rest != "" {
		for _, t := range tokenLayouts {
			if strings.HasPrefix(rest, t.token) {
				sb.WriteString(t.layout)
				rest = rest[len(t.token):]
				continue outer
			}
		}
		if err := checkLiteral(rest, format); err != nil {
			return "", err
		}
		sb.WriteByte(rest[0])
		rest = rest[1:]
	}
	return sb.String(), nil
}

// checkLiteral rejects a literal at the start of rest that time.Parse would
// read as a layout element.
func checkLiteral(rest, format string) error {
	if strings.HasPrefix(rest, "pm") {
		return fmt.Errorf("date format %q: unsupported literal %q", format, "pm")
	}
	if c := rest[0]; (c >= '0' && c <= '9') || strings.IndexByte("JMPZ_", c) >= 0 {
		return fmt.Errorf("date format %q: unsupported literal %q", format, c)
	}
	return nil
}
