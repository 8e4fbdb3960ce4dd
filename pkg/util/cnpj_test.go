package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCNPJ(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"13.823.084/0001-05", "13823084000105"},
		{"13823084000105", "13823084000105"},
		{" 18860059/0001-15 ", "18860059000115"},
		{"abc", ""},
		{"", ""},
		{"cnpj: 09-63", "0963"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeCNPJ(c.in), "input %q", c.in)
	}
}

func TestFormatCNPJ(t *testing.T) {
	assert.Equal(t, "13.823.084/0001-05", FormatCNPJ("13823084000105"))
	// anything not 14 digits passes through untouched
	assert.Equal(t, "0963", FormatCNPJ("0963"))
}

func TestSplitIdentifiers(t *testing.T) {
	in := "13823084000105, 09636393000107;18860059/0001-15\n\n ,"
	got := SplitIdentifiers(in)
	assert.Equal(t, []string{"13823084000105", "09636393000107", "18860059/0001-15"}, got)
}

func TestSplitIdentifiersEmpty(t *testing.T) {
	assert.Empty(t, SplitIdentifiers(""))
	assert.Empty(t, SplitIdentifiers(" ,;\n"))
}
