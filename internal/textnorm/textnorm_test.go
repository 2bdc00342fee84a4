package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Cultura", "cultura"},
		{"educação", "educacao"},
		{"Exposição de Arte", "exposicao de arte"},
		{"SÃO PAULO", "sao paulo"},
		{"Música & Dança", "musica & danca"},
		{"já normalizado", "ja normalizado"},
		{"123, ODS-11", "123, ods-11"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Fold(c.in), "Fold(%q)", c.in)
	}
}

func TestFoldIdempotent(t *testing.T) {
	inputs := []string{"", "Música", "coração", "ação cultural", "ASCII only", "über café"}
	for _, s := range inputs {
		once := Fold(s)
		assert.Equal(t, once, Fold(once), "Fold not idempotent for %q", s)
	}
}
