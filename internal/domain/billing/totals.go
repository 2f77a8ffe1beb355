package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Negocio-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ItemTotal calcula quantity*unitPrice - discount redondeado a 2 decimales.
// Falla si la cantidad no es positiva, si algún monto es negativo o si el total queda negativo.
func ItemTotal(quantity, unitPrice, discount decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: quantity debe ser mayor que 0", domain.ErrValidation)
	}
	if unitPrice.IsNegative() || discount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: precio y descuento no pueden ser negativos", domain.ErrValidation)
	}
	total := quantity.Mul(unitPrice).Sub(discount).Round(2)
	if total.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: el descuento supera el importe de la línea", domain.ErrValidation)
	}
	return total, nil
}

// Totals montos de cabecera.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals suma los totales de línea y aplica las tasas (porcentajes) sobre el subtotal:
// tax = subtotal*taxRate/100, discount = subtotal*discountRate/100, total = subtotal+tax-discount.
func ComputeTotals(itemTotals []decimal.Decimal, taxRate, discountRate decimal.Decimal) (Totals, error) {
	if err := ValidateRate("tax_rate", taxRate); err != nil {
		return Totals{}, err
	}
	if err := ValidateRate("discount_rate", discountRate); err != nil {
		return Totals{}, err
	}
	subtotal := decimal.Zero
	for _, t := range itemTotals {
		subtotal = subtotal.Add(t)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Div(hundred).Round(2)
	discount := subtotal.Mul(discountRate).Div(hundred).Round(2)
	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		Total:          subtotal.Add(tax).Sub(discount),
	}, nil
}

// ValidateRate exige un porcentaje entre 0 y 100.
func ValidateRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return domain.FieldErrors{field: "debe estar entre 0 y 100"}
	}
	return nil
}
