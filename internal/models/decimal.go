package models

import "github.com/shopspring/decimal"

// Money and dimensions are written as bare JSON numbers, the format the
// stored slots have always used. Quoted strings are still accepted on read.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
