package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "thousands and cents", input: "R$ 1.349,90", want: 134990},
		{name: "cents only", input: "R$ 82,35", want: 8235},
		{name: "no symbol", input: "6.509,00", want: 650900},
		{name: "no cents", input: "R$ 179", want: 17900},
		{name: "millions", input: "R$ 1.234.567,89", want: 123456789},
		{name: "non breaking space", input: "R$\u00a089,90", want: 8990},
		{name: "zero", input: "R$ 0,00", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"R$",
		"R$ 1,349.90",
		"R$ 12,3",
		"R$ 12,345",
		"R$ 1.34,90",
		"R$ -5,00",
		"abc",
		"R$ 1..349,90",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "R$ 0,00", Format(0))
	assert.Equal(t, "R$ 0,05", Format(5))
	assert.Equal(t, "R$ 82,35", Format(8235))
	assert.Equal(t, "R$ 179,00", Format(17900))
	assert.Equal(t, "R$ 1.349,90", Format(134990))
	assert.Equal(t, "R$ 123.456,00", Format(12345600))
	assert.Equal(t, "R$ 1.234.567,89", Format(123456789))
	assert.Equal(t, "R$ -10,50", Format(-1050))
}

func TestCartTotalRoundTrip(t *testing.T) {
	lego := MustParse("R$ 1.349,90")
	shirt := MustParse("R$ 82,35")

	total := lego*2 + shirt*1

	assert.Equal(t, int64(278215), total)
	assert.Equal(t, "R$ 2.782,15", Format(total))
}

func TestMustParse_PanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() { MustParse("R$ 1,5") })
}

func TestParseLegacy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "one decimal digit", input: "R$ 49,9", want: 4990},
		{name: "no space after symbol", input: "R$1.349,9", want: 134990},
		{name: "three decimals rounded", input: "R$ 10,005", want: 1001},
		{name: "strict format still works", input: "R$ 82,35", want: 8235},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, strictErr := Parse(tt.input)
			if tt.name != "strict format still works" {
				require.Error(t, strictErr)
			}

			got, err := ParseLegacy(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"grátis", "", "R$", "R$ -5,00", "consulte"} {
		_, err := ParseLegacy(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}
