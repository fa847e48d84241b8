package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeViabilityViable(t *testing.T) {
	v := ComputeViability(Viability{
		AverageTicket:   25,
		Capacity:        40,
		DailyRotations:  DailyRotations{Lunch: 1.5, Dinner: 1},
		MonthlyOpenDays: 26,
		FixedCosts:      FixedCosts{Rent: 3000, Staff: 9000, Utilities: 800, Licenses: 200, Other: 500},
	})

	// total fixed 13500, margin 17.5 → ceil = 772 covers
	assert.Equal(t, float64(772), v.BreakEvenPoint)
	assert.InDelta(t, 19300, v.MinMonthlyRevenue, 0.01)
	// capacity 100/day * 26 = 2600 covers; 772/2600 ≈ 29.7%
	assert.Equal(t, "VIABLE", v.ViabilityStatus)
}

func TestComputeViabilityTight(t *testing.T) {
	v := ComputeViability(Viability{
		AverageTicket:   20,
		Capacity:        30,
		DailyRotations:  DailyRotations{Lunch: 1, Dinner: 1},
		MonthlyOpenDays: 26,
		FixedCosts:      FixedCosts{Rent: 8000, Staff: 6000},
	})

	// 14000 / 14 = 1000 covers out of 1560 ≈ 64%
	assert.Equal(t, "TIGHT", v.ViabilityStatus)
}

func TestComputeViabilityNotViable(t *testing.T) {
	v := ComputeViability(Viability{
		AverageTicket:   15,
		Capacity:        20,
		DailyRotations:  DailyRotations{Lunch: 1, Dinner: 1},
		MonthlyOpenDays: 26,
		FixedCosts:      FixedCosts{Rent: 6000, Staff: 5000},
	})

	// 11000 / 10.5 = 1048 covers out of 1040 > 80%
	assert.Equal(t, "NOT_VIABLE", v.ViabilityStatus)
}

func TestComputeViabilityUnknownWithoutInputs(t *testing.T) {
	v := ComputeViability(Viability{AverageTicket: 20})
	assert.Equal(t, "UNKNOWN", v.ViabilityStatus)
	assert.Zero(t, v.BreakEvenPoint)

	// capacity but no costs
	v = ComputeViability(Viability{Capacity: 40, DailyRotations: DailyRotations{Lunch: 1}, MonthlyOpenDays: 26})
	assert.Equal(t, "UNKNOWN", v.ViabilityStatus)
}

func TestComputeViabilityZeroTicket(t *testing.T) {
	v := ComputeViability(Viability{
		Capacity:        40,
		DailyRotations:  DailyRotations{Lunch: 1},
		MonthlyOpenDays: 26,
		FixedCosts:      FixedCosts{Rent: 1000},
	})
	// no margin per ticket → break-even undefined, reported as zero
	assert.Zero(t, v.BreakEvenPoint)
	assert.Zero(t, v.MinMonthlyRevenue)
}

func TestInvestmentAndFundingTotals(t *testing.T) {
	inv := Investment{
		Location: 20000, KitchenEquipment: 35000, Furniture: 12000,
		Tech: 4000, Legal: 3000, InitialStock: 5000, Marketing: 2000, OperatingCushion: 8000,
	}
	assert.Equal(t, float64(89000), InvestmentTotal(inv))

	f := Funding{OwnFunds: 40000, Loans: 45000, Investors: 3000, Other: 1000}
	assert.Equal(t, float64(89000), FundingTotal(f))
}

func TestItemCostAndMargin(t *testing.T) {
	item := MenuItem{
		SellingPrice: 12,
		Ingredients: []Ingredient{
			{Quantity: 0.2, CostPerUnit: 6},  // 1.20
			{Quantity: 0.1, CostPerUnit: 8},  // 0.80
			{Quantity: 0.3, CostPerUnit: 5},  // 1.50
		},
	}
	cost := ItemCost(item)
	assert.InDelta(t, 3.5, cost, 0.001)
	assert.InDelta(t, (12-3.5)/12*100, ItemMargin(cost, item.SellingPrice), 0.001)
	assert.Zero(t, ItemMargin(3.5, 0))
}
