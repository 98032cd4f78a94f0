package greenops

// EPA conversion factors, 2024 edition.
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
//
// Each factor is the kg CO2e of one unit of activity:
//
//	equivalency = kg_CO2e / factor
const (
	// EPAMilesDrivenFactor is kg CO2e per mile for an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per smartphone charge.
	EPASmartphoneChargeFactor = 0.00822

	// EPATreeSeedlingFactor is kg CO2e absorbed per tree seedling over 10 years.
	EPATreeSeedlingFactor = 60.0

	// EPAHomeDayFactor is kg CO2e per day of average US home electricity.
	EPAHomeDayFactor = 18.3
)

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the smallest amount worth translating.
	// Below it the equivalencies are meaninglessly small.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches to "~X.X million" display.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches to "~X.X billion" display.
	BillionThreshold = 1_000_000_000
)

// equivalency binds a type to its factor and display labels.
type equivalency struct {
	kind   EquivalencyType
	factor float64
	label  string
	short  string
}

//nolint:gochecknoglobals // Static EPA factor table.
var equivalencies = []equivalency{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven", "mi"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged", "phones"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years", "trees"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity", "home-days"},
}
