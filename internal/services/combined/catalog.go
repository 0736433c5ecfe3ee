package combined

import "FinSeason/internal/domain/models"

const (
	FOMCCPI                 models.CombinationType = "FOMC-CPI-Week"
	FOMCNFP                 models.CombinationType = "FOMC-NFP-Week"
	FOMCOpEx                models.CombinationType = "FOMC-OpEx-Week"
	FOMCTripleWitching      models.CombinationType = "FOMC-Triple-Witching-Week"
	FOMCEarnings            models.CombinationType = "FOMC-Earnings-Week"
	CPIEarnings             models.CombinationType = "CPI-Earnings-Week"
	CPIOpEx                 models.CombinationType = "CPI-OpEx-Week"
	CPITripleWitching       models.CombinationType = "CPI-Triple-Witching-Week"
	NFPEarnings             models.CombinationType = "NFP-Earnings-Week"
	TripleWitchingRebalance models.CombinationType = "Triple-Witching-Rebalance-Week"
	OpExEarnings            models.CombinationType = "OpEx-Earnings-Week"
	ElectionFOMC            models.CombinationType = "Election-FOMC-Week"
	ElectionNFP             models.CombinationType = "Election-NFP-Week"
	FOMCCPIOpEx             models.CombinationType = "FOMC-CPI-OpEx-Week"
	FOMCOpExEarnings        models.CombinationType = "FOMC-OpEx-Earnings-Week"
	CPIOpExEarnings         models.CombinationType = "CPI-OpEx-Earnings-Week"
	MultipleHighImpact      models.CombinationType = "Multiple-HighImpact-Week"
)

const (
	multipleBase = 3.0
	multipleStep = 0.5
	multipleCap  = 4.0
)

var (
	fomc     = models.EventRateDecision
	cpi      = models.EventPriceIndex
	nfp      = models.EventLaborReport
	opex     = models.EventOptionsExpiry
	tw       = models.EventTripleWitching
	earnings = models.EventEarningsSeason
	rebal    = models.EventIndexRebalancing
	election = models.EventElection
)

// catalog is the fixed list of combination types. Order breaks matching ties.
var catalog = []models.CombinationSpec{
	{Type: FOMCCPI, RequiredTypes: []models.EventType{fomc, cpi}, VolatilityMultiplier: 2.5, ExpectedImpact: models.ExpectedExtreme,
		Description: "Rate decision and inflation print in the same week"},
	{Type: FOMCNFP, RequiredTypes: []models.EventType{fomc, nfp}, VolatilityMultiplier: 2.2, ExpectedImpact: models.ExpectedVeryHigh,
		Description: "Rate decision and payrolls in the same week"},
	{Type: FOMCOpEx, RequiredTypes: []models.EventType{fomc, opex}, VolatilityMultiplier: 2.0, ExpectedImpact: models.ExpectedVeryHigh,
		Description: "Rate decision into monthly options expiry"},
	{Type: FOMCTripleWitching, RequiredTypes: []models.EventType{fomc, tw}, VolatilityMultiplier: 3.0, ExpectedImpact: models.ExpectedExtreme,
		Description: "Rate decision into quarterly triple witching"},
	{Type: FOMCEarnings, RequiredTypes: []models.EventType{fomc, earnings}, VolatilityMultiplier: 2.0, ExpectedImpact: models.ExpectedVeryHigh,
		Description: "Rate decision during peak earnings season"},
	{Type: CPIEarnings, RequiredTypes: []models.EventType{cpi, earnings}, VolatilityMultiplier: 2.0, ExpectedImpact: models.ExpectedVeryHigh,
		Description: "Inflation print during peak earnings season"},
	{Type: CPIOpEx, RequiredTypes: []models.EventType{cpi, opex}, VolatilityMultiplier: 1.8, ExpectedImpact: models.ExpectedHigh,
		Description: "Inflation print into monthly options expiry"},
	{Type: CPITripleWitching, RequiredTypes: []models.EventType{cpi, tw}, VolatilityMultiplier: 2.5, ExpectedImpact: models.ExpectedExtreme,
		Description: "Inflation print into quarterly triple witching"},
	{Type: NFPEarnings, RequiredTypes: []models.EventType{nfp, earnings}, VolatilityMultiplier: 1.7, ExpectedImpact: models.ExpectedHigh,
		Description: "Payrolls during peak earnings season"},
	{Type: TripleWitchingRebalance, RequiredTypes: []models.EventType{tw, rebal}, VolatilityMultiplier: 2.2, ExpectedImpact: models.ExpectedVeryHigh,
		Description: "Triple witching with index rebalance flows"},
	{Type: OpExEarnings, RequiredTypes: []models.EventType{opex, earnings}, VolatilityMultiplier: 1.6, ExpectedImpact: models.ExpectedHigh,
		Description: "Monthly options expiry during earnings season"},
	{Type: ElectionFOMC, RequiredTypes: []models.EventType{election, fomc}, VolatilityMultiplier: 3.0, ExpectedImpact: models.ExpectedExtreme,
		Description: "Election and rate decision in the same week"},
	{Type: ElectionNFP, RequiredTypes: []models.EventType{election, nfp}, VolatilityMultiplier: 2.3, ExpectedImpact: models.ExpectedVeryHigh,
		Description: "Election and payrolls in the same week"},
	{Type: FOMCCPIOpEx, RequiredTypes: []models.EventType{fomc, cpi, opex}, VolatilityMultiplier: 3.0, ExpectedImpact: models.ExpectedExtreme,
		Description: "Rate decision, inflation print and options expiry"},
	{Type: FOMCOpExEarnings, RequiredTypes: []models.EventType{fomc, opex, earnings}, VolatilityMultiplier: 2.6, ExpectedImpact: models.ExpectedVeryHigh,
		Description: "Rate decision and options expiry during earnings season"},
	{Type: CPIOpExEarnings, RequiredTypes: []models.EventType{cpi, opex, earnings}, VolatilityMultiplier: 2.4, ExpectedImpact: models.ExpectedVeryHigh,
		Description: "Inflation print and options expiry during earnings season"},
	{Type: MultipleHighImpact, RequiredTypes: nil, VolatilityMultiplier: 3.5, ExpectedImpact: models.ExpectedExtreme,
		Description: "Three or more high-impact events in one week"},
}

// activeTypes are the event types considered when classifying a week.
var activeTypes = []models.EventType{fomc, tw, cpi, nfp, earnings, opex, rebal, election}

func isHighImpact(t models.EventType) bool {
	switch t {
	case fomc, cpi, nfp, tw, election:
		return true
	}
	return false
}
