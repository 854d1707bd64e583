package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"salesprobe/domain/dataset"
)

// SalesGeneratorConfig configures the synthetic sales sheet
type SalesGeneratorConfig struct {
	Rows        int       `json:"rows"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MissingRate float64   `json:"missing_rate"` // per-cell chance of a blank in the gappy columns
	Seed        int64     `json:"seed"`
}

// DefaultSalesConfig returns a small half-year sheet with a few gaps
func DefaultSalesConfig() SalesGeneratorConfig {
	return SalesGeneratorConfig{
		Rows:        200,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		MissingRate: 0.05,
		Seed:        42,
	}
}

// SalesColumns lists the generated columns in sheet order
var SalesColumns = []string{
	"Order ID", "Order Date", "Region", "Category", "Sales", "Quantity", "Discount", "Profit", "Profit Margin",
}

// SalesDataGenerator generates superstore-style order rows
type SalesDataGenerator struct {
	config SalesGeneratorConfig
	rng    *rand.Rand
}

// NewSalesDataGenerator creates a generator; equal configs produce equal datasets
func NewSalesDataGenerator(config SalesGeneratorConfig) *SalesDataGenerator {
	return &SalesDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

type salesColumns struct {
	orderID, date, region, category, sales, quantity, discount, profit, margin []dataset.Value
}

// Generate builds the dataset. Region, Category, Sales, Discount and Profit
// carry blanks at MissingRate; Order ID, Order Date and Quantity are complete.
func (g *SalesDataGenerator) Generate() (*dataset.Dataset, error) {
	n := g.config.Rows
	cols := salesColumns{
		orderID:  make([]dataset.Value, n),
		date:     make([]dataset.Value, n),
		region:   make([]dataset.Value, n),
		category: make([]dataset.Value, n),
		sales:    make([]dataset.Value, n),
		quantity: make([]dataset.Value, n),
		discount: make([]dataset.Value, n),
		profit:   make([]dataset.Value, n),
		margin:   make([]dataset.Value, n),
	}

	for i := 0; i < n; i++ {
		orderDate := g.randomDate()
		category := g.randomCategory()
		quantity := 1 + g.rng.Intn(9)
		discount := g.randomDiscount()
		unitPrice := g.unitPrice(category)
		sales := round2(unitPrice * float64(quantity) * (1 - discount))
		profit := round2(sales * (baseMargin[category] - discount*0.8 + g.rng.NormFloat64()*0.05))

		cols.orderID[i] = dataset.Str(fmt.Sprintf("CA-%d-%06d", orderDate.Year(), i+1))
		cols.date[i] = dataset.Time(orderDate)
		cols.quantity[i] = dataset.Num(float64(quantity))
		cols.region[i] = g.maybeMissing(dataset.Str(g.randomRegion()))
		cols.category[i] = g.maybeMissing(dataset.Str(category))
		cols.sales[i] = g.maybeMissing(dataset.Num(sales))
		cols.discount[i] = g.maybeMissing(dataset.Num(discount))
		cols.profit[i] = g.maybeMissing(dataset.Num(profit))
		if cols.sales[i].IsNumeric() && cols.profit[i].IsNumeric() && sales != 0 {
			cols.margin[i] = dataset.Num(round4(profit / sales))
		} else {
			cols.margin[i] = dataset.Missing()
		}
	}

	ds := dataset.NewDataset(fmt.Sprintf("synthetic-sales-%d", g.config.Seed))
	columns := []struct {
		kind   dataset.Kind
		values []dataset.Value
	}{
		{dataset.KindCategorical, cols.orderID},
		{dataset.KindDatetime, cols.date},
		{dataset.KindCategorical, cols.region},
		{dataset.KindCategorical, cols.category},
		{dataset.KindNumeric, cols.sales},
		{dataset.KindNumeric, cols.quantity},
		{dataset.KindNumeric, cols.discount},
		{dataset.KindNumeric, cols.profit},
		{dataset.KindNumeric, cols.margin},
	}
	for i, c := range columns {
		if err := ds.AddColumn(SalesColumns[i], c.kind, c.values); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

var baseMargin = map[string]float64{
	"Furniture":       0.08,
	"Office Supplies": 0.17,
	"Technology":      0.19,
}

func (g *SalesDataGenerator) maybeMissing(v dataset.Value) dataset.Value {
	if g.rng.Float64() < g.config.MissingRate {
		return dataset.Missing()
	}
	return v
}

// randomDate picks a whole day between StartDate and EndDate inclusive
func (g *SalesDataGenerator) randomDate() time.Time {
	start, end := g.config.StartDate, g.config.EndDate
	if start.After(end) {
		start, end = end, start
	}
	days := int(end.Sub(start).Hours()/24) + 1
	return start.AddDate(0, 0, g.rng.Intn(days))
}

func (g *SalesDataGenerator) randomRegion() string {
	return weightedChoice(g.rng, []string{"West", "East", "Central", "South"}, []float64{0.32, 0.28, 0.23, 0.17})
}

func (g *SalesDataGenerator) randomCategory() string {
	return weightedChoice(g.rng, []string{"Office Supplies", "Furniture", "Technology"}, []float64{0.6, 0.21, 0.19})
}

func (g *SalesDataGenerator) randomDiscount() float64 {
	return []float64{0, 0, 0, 0.1, 0.2, 0.3}[g.rng.Intn(6)]
}

// unitPrice is log-normal around a per-category typical price
func (g *SalesDataGenerator) unitPrice(category string) float64 {
	typical := map[string]float64{"Office Supplies": 20, "Furniture": 150, "Technology": 250}[category]
	return typical * math.Exp(g.rng.NormFloat64()*0.6)
}

func weightedChoice(rng *rand.Rand, options []string, weights []float64) string {
	r := rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return options[i]
		}
	}
	return options[0]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }
