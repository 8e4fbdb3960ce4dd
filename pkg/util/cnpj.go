package util

import "strings"

// CNPJLength is the number of digits in a normalized CNPJ.
const CNPJLength = 14

// NormalizeCNPJ strips every non-digit rune from a raw CNPJ string.
// An empty result means the input carried no digits at all.
func NormalizeCNPJ(raw string) string {
	var b strings.Builder
	b.Grow(CNPJLength)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCNPJ renders a normalized 14-digit CNPJ as 00.000.000/0000-00.
// Anything that is not exactly 14 digits is returned unchanged.
func FormatCNPJ(cnpj string) string {
	if len(cnpj) != CNPJLength {
		return cnpj
	}
	return cnpj[0:2] + "." + cnpj[2:5] + "." + cnpj[5:8] + "/" + cnpj[8:12] + "-" + cnpj[12:14]
}

// SplitIdentifiers splits free-text input on comma, semicolon and newline,
// trims whitespace and drops empty entries.
func SplitIdentifiers(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
