package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	prefixLen      = 3
	fallbackPrefix = "FAC"
	sequenceWidth  = 4
)

// CompanyPrefix deriva el prefijo de numeración del nombre de la empresa:
// primeras tres letras o dígitos, sin tildes, en mayúsculas ("Panadería Ñandú" => "PAN").
func CompanyPrefix(companyName string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, companyName)
	if err != nil {
		plain = companyName
	}
	var b strings.Builder
	for _, r := range plain {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() == prefixLen {
				break
			}
		}
	}
	if b.Len() < prefixLen {
		return fallbackPrefix
	}
	return b.String()
}

// PeriodPattern devuelve la parte fija del número para la empresa y el mes: "PAN-202610-".
func PeriodPattern(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%04d%02d-", prefix, at.Year(), int(at.Month()))
}

// FormatNumber arma el número completo: "PAN-202610-0007".
func FormatNumber(pattern string, seq int) string {
	return fmt.Sprintf("%s%0*d", pattern, sequenceWidth, seq)
}

// NextSequence calcula el siguiente consecutivo a partir del mayor número existente del periodo.
// last vacío (primer número del mes) o con sufijo ilegible => 1.
func NextSequence(pattern, last string) int {
	if last == "" || !strings.HasPrefix(last, pattern) {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, pattern))
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}
