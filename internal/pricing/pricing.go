// Package pricing holds the fee schedule and currency math. Pure
// functions except for the live exchange-rate fetch, which always
// degrades to a configured fallback.
package pricing

import "math"

// Calculator applies the tiered admin fee: one fee unit per started
// bracket of vials. A single vial already incurs a full unit.
type Calculator struct {
	FeeUnitPHP      float64
	VialsPerFeeUnit int
}

func NewCalculator(feeUnitPHP float64, vialsPerFeeUnit int) Calculator {
	if vialsPerFeeUnit <= 0 {
		vialsPerFeeUnit = 50
	}
	return Calculator{FeeUnitPHP: feeUnitPHP, VialsPerFeeUnit: vialsPerFeeUnit}
}

// AdminFee returns the fee for an order totalling the given vial count.
func (c Calculator) AdminFee(totalVials int) float64 {
	if totalVials <= 0 {
		return 0
	}
	brackets := math.Ceil(float64(totalVials) / float64(c.VialsPerFeeUnit))
	return brackets * c.FeeUnitPHP
}

// GrandTotal is the local-currency subtotal plus the admin fee for the
// order's vial count.
func (c Calculator) GrandTotal(subtotalPHP float64, totalVials int) float64 {
	return subtotalPHP + c.AdminFee(totalVials)
}
