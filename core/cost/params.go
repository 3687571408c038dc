package cost

import "github.com/kilianp07/ucga/internal/validate"

// Params holds the economic settings of a run.
type Params struct {
	// VOLL is the value of lost load in currency per MWh.
	VOLL float64 `json:"voll" validate:"gte=0"`
	// ReserveMargin is the fraction of demand committed capacity must exceed.
	ReserveMargin float64 `json:"reserve_margin" validate:"gte=0"`
	// PeriodHours is the duration of one period, 0.5 for half-hourly settlement.
	PeriodHours float64 `json:"period_hours" validate:"gt=0"`
	// Uncertainty scales the demand standard deviation (sigma = Uncertainty * demand).
	Uncertainty float64 `json:"uncertainty" validate:"gte=0,lt=0.5"`
}

// SetDefaults fills PeriodHours. VOLL keeps its value: 0 prices lost load
// at nothing, and config.Default carries the reference 1e3.
func (p *Params) SetDefaults() {
	if p.PeriodHours == 0 {
		p.PeriodHours = 1
	}
}

// Validate checks the configured ranges.
func (p Params) Validate() error {
	return validate.Struct(p)
}
