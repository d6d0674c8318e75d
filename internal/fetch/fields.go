package fetch

// Provider field mnemonics.
const (
	// FieldPriceLast is the daily closing level.
	FieldPriceLast = "PX_LAST"
	// FieldTotalReturn is the net-dividend total-return index level.
	FieldTotalReturn = "TOT_RETURN_INDEX_NET_DVDS"
)

// FieldPreference returns the ordered list of fields to request. Total return
// is preferred when enabled; price-last is always the fallback. The order is
// resolved here, before alignment, so downstream stages never branch on
// provider field names.
func FieldPreference(useTotalReturn bool) []string {
	if useTotalReturn {
		return []string{FieldTotalReturn, FieldPriceLast}
	}
	return []string{FieldPriceLast}
}
