package model

// Demand is the aggregate two-sided demand the ledger holds for a vendor,
// one amount per asset of the vendor's universe.
type Demand struct {
	Long  Vector
	Short Vector
}
