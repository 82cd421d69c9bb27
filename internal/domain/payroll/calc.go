package payroll

import "math"

// Net computes take-home pay from the salary components. The stored net is
// always re-derived from the components, never trusted from input.
func Net(basic, hra, allowances, deductions float64) float64 {
	return round2(basic + hra + allowances - deductions)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ValidPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2200
}
