package domain

import "math"

// Contribution margin per cover, assuming a 30% food cost.
const marginFactor = 0.7

// ComputeViability fills the derived break-even fields from the inputs.
// BreakEvenPoint is covers per month needed to cover fixed costs.
func ComputeViability(v Viability) Viability {
	fc := v.FixedCosts
	totalFixed := fc.Rent + fc.Staff + fc.Utilities + fc.Licenses + fc.Other

	marginPerTicket := v.AverageTicket * marginFactor

	var breakEven float64
	if marginPerTicket > 0 {
		breakEven = math.Ceil(totalFixed / marginPerTicket)
	}
	v.BreakEvenPoint = breakEven
	v.MinMonthlyRevenue = breakEven * v.AverageTicket

	dailyCapacity := float64(v.Capacity) * (v.DailyRotations.Lunch + v.DailyRotations.Dinner)
	monthlyCapacity := dailyCapacity * float64(v.MonthlyOpenDays)

	if monthlyCapacity <= 0 || totalFixed <= 0 {
		v.ViabilityStatus = "UNKNOWN"
		return v
	}

	occupationNeeded := breakEven / monthlyCapacity * 100
	switch {
	case occupationNeeded > 80:
		v.ViabilityStatus = "NOT_VIABLE"
	case occupationNeeded > 60:
		v.ViabilityStatus = "TIGHT"
	default:
		v.ViabilityStatus = "VIABLE"
	}
	return v
}

// InvestmentTotal sums every investment line except the stored total.
func InvestmentTotal(i Investment) float64 {
	return i.Location + i.KitchenEquipment + i.Furniture + i.Tech +
		i.InitialStock + i.Legal + i.Marketing + i.OperatingCushion
}

// FundingTotal sums every funding source except the stored total.
func FundingTotal(f Funding) float64 {
	return f.OwnFunds + f.Loans + f.Investors + f.Other
}

// ItemCost sums the ingredient costs of a menu item.
func ItemCost(item MenuItem) float64 {
	var cost float64
	for _, ing := range item.Ingredients {
		cost += ing.Quantity * ing.CostPerUnit
	}
	return cost
}

// ItemMargin returns the gross margin percent of a menu item.
func ItemMargin(cost, price float64) float64 {
	if price == 0 {
		return 0
	}
	return (price - cost) / price * 100
}
