package domain

// StockDecision is the outcome of checking a requested quantity against
// on-hand stock. Available and Requested are carried so callers can report
// the shortfall.
type StockDecision struct {
	Allowed   bool
	Available int
	Requested int
}

// CheckStock decides whether requested units may be taken from available
// stock. It is a pure function used by order creation and by the direct
// purchase path.
func CheckStock(available, requested int) StockDecision {
	return StockDecision{
		Allowed:   requested > 0 && available >= requested,
		Available: available,
		Requested: requested,
	}
}
