package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerm(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"minusculas", "PARACETAMOL", "paracetamol"},
		{"acentos", "Ibuprofén", "ibuprofen"},
		{"la enie pierde la virgulilla", "Año", "ano"},
		{"espacios sobrantes", "  amoxicilina   500mg ", "amoxicilina 500mg"},
		{"mezcla", "  ÁCIDO Fólico ", "acido folico"},
		{"vacio", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Term(tc.in))
		})
	}
}
