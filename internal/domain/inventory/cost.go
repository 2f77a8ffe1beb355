// Package inventory reglas de dominio del stock: dirección de los movimientos y costo promedio.
package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada:
// ((stock * costo) + (cantidad * costoEntrada)) / (stock + cantidad).
// Stock negativo (backorder) cuenta como cero.
func WeightedAverageCost(stock, cost, quantity, unitCost decimal.Decimal) decimal.Decimal {
	if stock.IsNegative() {
		stock = decimal.Zero
	}
	sum := stock.Add(quantity)
	if !sum.IsPositive() {
		return unitCost.Round(2)
	}
	return stock.Mul(cost).Add(quantity.Mul(unitCost)).Div(sum).Round(2)
}

// SignedQuantity aplica la dirección del tipo de movimiento a la magnitud.
func SignedQuantity(quantity decimal.Decimal, isAddition bool) decimal.Decimal {
	if isAddition {
		return quantity.Abs()
	}
	return quantity.Abs().Neg()
}

// BelowReorder informa si el stock alcanzó el punto de reorden. Sin punto configurado nunca alerta.
func BelowReorder(stock, reorderLevel decimal.Decimal) bool {
	return reorderLevel.IsPositive() && stock.LessThanOrEqual(reorderLevel)
}
