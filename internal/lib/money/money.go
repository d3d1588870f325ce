// Package money converts between pt-BR formatted price strings ("R$ 1.349,90")
// and integer amounts in centavos.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const Symbol = "R$"

var ErrInvalidAmount = errors.New("invalid amount")

// Группы тысяч через точку либо сплошные цифры, копейки строго двумя знаками после запятой.
var amountRe = regexp.MustCompile(`^(\d{1,3}(\.\d{3})+|\d+)(,\d{2})?$`)

// Parse разбирает строку вида "R$ 1.349,90" и возвращает сумму в сентаво.
func Parse(s string) (int64, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	raw = strings.TrimSpace(strings.TrimPrefix(raw, Symbol))

	if !amountRe.MatchString(raw) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	normalized := strings.ReplaceAll(raw, ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}

	return d.Shift(2).IntPart(), nil
}

// ParseLegacy разбирает цены, записанные старым приложением без строгого формата
// ("R$ 49,9", "R$1.349,9"): символ и точки выбрасываются, запятая становится
// десятичным разделителем, сумма округляется до сентаво.
func ParseLegacy(s string) (int64, error) {
	raw := strings.ReplaceAll(s, "\u00a0", " ")
	raw = strings.ReplaceAll(raw, Symbol, "")
	raw = strings.ReplaceAll(raw, " ", "")

	raw = strings.ReplaceAll(raw, ".", "")
	raw = strings.Replace(raw, ",", ".", 1)

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return d.Round(2).Shift(2).IntPart(), nil
}

// MustParse is Parse for compile-time constants such as the seed catalog.
func MustParse(s string) int64 {
	cents, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return cents
}

// Format renders centavos as "R$ 1.349,90".
func Format(cents int64) string {
	fixed := decimal.New(cents, -2).Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(fixed, ".")

	sign := ""
	if cents < 0 {
		sign = "-"
	}

	return fmt.Sprintf("%s %s%s,%s", Symbol, sign, groupThousands(intPart), frac)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}

	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
