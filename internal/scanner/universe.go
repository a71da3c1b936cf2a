package scanner

import "FuturesScanner/internal/model"

// FilterUniverse keeps instruments quoted in quoteAsset with the given contract
// type, preserving exchange order, and caps the result at limit (0 = no cap).
func FilterUniverse(instruments []model.Instrument, quoteAsset, contractType string, limit int) []string {
	symbols := make([]string, 0, len(instruments))
	for _, in := range instruments {
		if in.QuoteAsset != quoteAsset || in.ContractType != contractType {
			continue
		}
		symbols = append(symbols, in.Symbol)
		if limit > 0 && len(symbols) == limit {
			break
		}
	}
	return symbols
}
