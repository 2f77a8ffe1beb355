package inventory

// Metrics contadores de negocio del libro de stock.
type Metrics interface {
	StockMovementRecorded(movementType string)
}

type nopMetrics struct{}

func (nopMetrics) StockMovementRecorded(string) {}
