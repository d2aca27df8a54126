package analytics

import "github.com/tracelens/tracelens/internal/models"

// DefaultRates returns the built-in model pricing table, in dollars per
// 1000 tokens. Callers get a fresh copy they can mutate.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"gpt-4":             0.03,
		"gpt-4-turbo":       0.01,
		"gpt-3.5-turbo":     0.002,
		"claude-3-5-sonnet": 0.003,
		"claude-3":          0.015,
	}
}

// DefaultRate prices models absent from the table. It must stay nonzero:
// silently reporting zero cost for an unrecognized model would hide real
// spend.
const DefaultRate = 0.01

// Estimator computes per-record cost from an injectable rate table.
type Estimator struct {
	rates       map[string]float64
	defaultRate float64
}

// NewEstimator builds an estimator over the given rate table. The table
// is copied. A defaultRate <= 0 falls back to DefaultRate.
func NewEstimator(rates map[string]float64, defaultRate float64) *Estimator {
	if defaultRate <= 0 {
		defaultRate = DefaultRate
	}
	copied := make(map[string]float64, len(rates))
	for model, rate := range rates {
		copied[model] = rate
	}
	return &Estimator{rates: copied, defaultRate: defaultRate}
}

// Rate returns the per-1000-token rate for a model, falling back to the
// default rate for unknown models.
func (e *Estimator) Rate(model string) float64 {
	if rate, ok := e.rates[model]; ok {
		return rate
	}
	return e.defaultRate
}

// Cost computes the dollar cost of one invocation.
func (e *Estimator) Cost(model string, promptTokens, completionTokens int) float64 {
	return float64(promptTokens+completionTokens) / 1000 * e.Rate(model)
}

// Enrich fills CostUSD on every record in place.
func (e *Estimator) Enrich(records []models.RunRecord) {
	for i := range records {
		records[i].CostUSD = e.Cost(records[i].Model, records[i].PromptTokens, records[i].CompletionTokens)
	}
}
