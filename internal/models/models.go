package models

import "github.com/shopspring/decimal"

func init() {
	// prices are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Address struct {
	Address    string `bson:"address"    json:"address"`
	City       string `bson:"city"       json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country"    json:"country"`
}
