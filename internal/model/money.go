package model

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals are sent as JSON numbers (12.95), not strings ("12.95").
	decimal.MarshalJSONWithoutQuotes = true
}
