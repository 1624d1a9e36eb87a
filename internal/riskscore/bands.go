package riskscore

// Band maps raw values below Upper to a score and signal label.
// Tables are ordered ascending by Upper; the final band uses +Inf
// semantics via a catch-all entry.
type Band struct {
	Upper  float64 // exclusive upper bound of the band
	Score  float64 // 0–100 risk score
	Signal string
}

// BandTable is an ordered threshold rule set for one indicator.
// 지표별 임계값 규칙을 분기문 대신 데이터로 통합
type BandTable struct {
	Bands []Band
	// CatchAll applies when the raw value is ≥ every Upper bound
	CatchAll Band
}

// Evaluate maps a raw reading to (score, signal) by the first band
// whose upper bound exceeds the value
func (t BandTable) Evaluate(raw float64) (float64, string) {
	for _, b := range t.Bands {
		if raw < b.Upper {
			return b.Score, b.Signal
		}
	}
	return t.CatchAll.Score, t.CatchAll.Signal
}

// Canonical on-chain indicator names
const (
	MetricMVRVZ            = "MVRV Z-Score"
	MetricReserveRisk      = "Reserve Risk"
	MetricPuell            = "Puell Multiple"
	MetricPiCycle          = "Pi Cycle Top"
	Metric200WMA           = "200W MA Multiple"
	MetricRHODL            = "RHODL Ratio"
	MetricNUPL             = "NUPL"
	MetricSOPR             = "SOPR"
	MetricExchangeReserves = "Exchange Reserves"
)

// bandTables holds the per-indicator threshold rules.
// 구간 경계는 온체인 관례 기준 — 확장 시 여기만 수정
var bandTables = map[string]BandTable{
	MetricMVRVZ: {
		Bands: []Band{
			{Upper: 0, Score: 5, Signal: "Deep Value"},
			{Upper: 2, Score: 30, Signal: "Undervalued"},
			{Upper: 4, Score: 55, Signal: "Neutral"},
			{Upper: 5, Score: 70, Signal: "Heating Up"},
			{Upper: 7, Score: 85, Signal: "High"},
		},
		CatchAll: Band{Score: 100, Signal: "Extreme"},
	},
	MetricReserveRisk: {
		Bands: []Band{
			{Upper: 0.002, Score: 15, Signal: "Low Risk"},
			{Upper: 0.008, Score: 35, Signal: "Accumulation"},
			{Upper: 0.02, Score: 60, Signal: "Neutral"},
		},
		CatchAll: Band{Score: 85, Signal: "High Risk"},
	},
	MetricPuell: {
		Bands: []Band{
			{Upper: 0.5, Score: 10, Signal: "Miner Capitulation"},
			{Upper: 0.8, Score: 30, Signal: "Undervalued"},
			{Upper: 1.2, Score: 50, Signal: "Fair Value"},
			{Upper: 2.0, Score: 70, Signal: "Profitable"},
		},
		CatchAll: Band{Score: 90, Signal: "Overheated"},
	},
	// Raw value: proximity of the 111DMA to 2×350DMA, in percent
	MetricPiCycle: {
		Bands: []Band{
			{Upper: 50, Score: 10, Signal: "Not Triggered"},
			{Upper: 80, Score: 40, Signal: "Building"},
			{Upper: 95, Score: 70, Signal: "Approaching"},
		},
		CatchAll: Band{Score: 100, Signal: "Triggered"},
	},
	Metric200WMA: {
		Bands: []Band{
			{Upper: 1, Score: 10, Signal: "Below 200W MA"},
			{Upper: 2, Score: 45, Signal: "Normal"},
			{Upper: 3, Score: 65, Signal: "Elevated"},
			{Upper: 4, Score: 85, Signal: "High"},
		},
		CatchAll: Band{Score: 100, Signal: "Extreme"},
	},
	MetricRHODL: {
		Bands: []Band{
			{Upper: 1000, Score: 20, Signal: "Early Cycle"},
			{Upper: 5000, Score: 55, Signal: "Mid-Cycle"},
			{Upper: 20000, Score: 80, Signal: "Late Cycle"},
		},
		CatchAll: Band{Score: 100, Signal: "Cycle Top"},
	},
	MetricNUPL: {
		Bands: []Band{
			{Upper: 0, Score: 10, Signal: "Capitulation"},
			{Upper: 0.25, Score: 30, Signal: "Hope"},
			{Upper: 0.5, Score: 50, Signal: "Optimism"},
			{Upper: 0.75, Score: 70, Signal: "Belief"},
		},
		CatchAll: Band{Score: 90, Signal: "Euphoria"},
	},
	MetricSOPR: {
		Bands: []Band{
			{Upper: 0.95, Score: 15, Signal: "Deep Loss"},
			{Upper: 1.0, Score: 30, Signal: "In Loss"},
			{Upper: 1.05, Score: 45, Signal: "In Profit"},
			{Upper: 1.1, Score: 65, Signal: "Profit-Taking"},
		},
		CatchAll: Band{Score: 85, Signal: "Heavy Profit-Taking"},
	},
	// Raw value: 30-day change of exchange balances in percent
	MetricExchangeReserves: {
		Bands: []Band{
			{Upper: -5, Score: 15, Signal: "Strong Outflow"},
			{Upper: 0, Score: 25, Signal: "Outflow"},
			{Upper: 5, Score: 55, Signal: "Inflow"},
		},
		CatchAll: Band{Score: 80, Signal: "Strong Inflow"},
	},
}

// TableFor returns the threshold table for a known indicator name
func TableFor(name string) (BandTable, bool) {
	t, ok := bandTables[name]
	return t, ok
}
