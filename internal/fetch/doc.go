// Package fetch implements the market-data provider client.
//
// The provider is a Bloomberg-style reference-data service exposed over HTTP:
// the client requests daily history for a security and a list of fields and
// receives dated field values back. Requests are rate limited and securities
// are fetched concurrently with a bounded worker count.
//
// A security that returns no usable data is reported with an empty series
// rather than failing the whole batch; the alignment stage downstream turns
// empty series into partial-data warnings.
package fetch
