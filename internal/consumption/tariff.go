package consumption

import "math"

const (
	// TariffRate is the flat price in R$ per kWh applied to every appliance
	TariffRate = 0.65

	// DaysPerMonth is the fixed month length used for monthly figures
	DaysPerMonth = 30
)

// DailyKWh returns the energy an appliance uses per day
func DailyKWh(powerWatts, hoursPerDay float64) float64 {
	return powerWatts * hoursPerDay / 1000
}

// MonthlyKWh returns the energy an appliance uses in a 30 day month
func MonthlyKWh(powerWatts, hoursPerDay float64) float64 {
	return DailyKWh(powerWatts, hoursPerDay) * DaysPerMonth
}

// MonthlyCost returns the monthly cost in R$ of an appliance
func MonthlyCost(powerWatts, hoursPerDay float64) float64 {
	return Cost(MonthlyKWh(powerWatts, hoursPerDay))
}

// Cost converts kWh to R$ at the flat tariff
func Cost(kwh float64) float64 {
	return kwh * TariffRate
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds half away from zero to one decimal
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
