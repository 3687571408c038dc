package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/ucga/core/model"
	"github.com/kilianp07/ucga/core/schedule"
)

func startUnit(status int) model.Generator {
	return model.Generator{MinOutput: 10, MaxOutput: 100, A: 0.01, B: 2, C: 50,
		HotCost: 100, ColdCost: 500, ColdHrs: 3, MinUp: 1, MinDown: 1, Status: status}
}

func TestFuelCost(t *testing.T) {
	fleet := model.Fleet{startUnit(1), startUnit(1)}
	d := mat.NewDense(2, 2, []float64{
		50, 0,
		100, 10,
	})
	// 175 + (100+200+50) + (1+20+50), zero output is free
	want := 175.0 + 350 + 71
	assert.InDelta(t, want, FuelCost(d, fleet, 1), 1e-9)
	assert.InDelta(t, want/2, FuelCost(d, fleet, 0.5), 1e-9)
}

func TestStartCostHotAndCold(t *testing.T) {
	tests := []struct {
		name   string
		status int
		bits   []int8
		want   float64
	}{
		{"offline two periods before horizon", -2, []int8{1}, 100},
		{"offline four periods before horizon", -4, []int8{1}, 500},
		{"offline exactly threshold", -3, []int8{1}, 100},
		{"offline four periods inside horizon", 1, []int8{0, 0, 0, 0, 1}, 500},
		{"offline two periods inside horizon", 1, []int8{0, 0, 1}, 100},
		{"no start when already on", 5, []int8{1, 1}, 0},
		{"no cost when shutting down", 5, []int8{0, 0}, 0},
		{"two starts", -1, []int8{1, 0, 1}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fleet := model.Fleet{startUnit(tt.status)}
			b := schedule.NewBinary(len(tt.bits), 1)
			for i, v := range tt.bits {
				b[i][0] = v
			}
			s := schedule.ToInteger(b, fleet.InitStatus())
			assert.Equal(t, tt.want, StartCost(fleet, s, fleet.InitStatus()))
		})
	}
}

func TestViolations(t *testing.T) {
	g := startUnit(1)
	g.MinUp = 3
	g.MinDown = 2
	fleet := model.Fleet{g}
	demand := model.Demand{10, 10, 10, 10}

	b := schedule.Binary{{0}, {1}, {1}, {1}}
	s := schedule.ToInteger(b, fleet.InitStatus())
	// period 0: stop with run 1 < 3 and no capacity online
	// period 1: start with offline run 1 < 2
	assert.Equal(t, 3, Violations(fleet, s, fleet.InitStatus(), 0.1, demand))
	assert.Equal(t, 3*50.0, ConstraintCost(fleet, s, fleet.InitStatus(), 50, 0.1, demand))
}

func TestReserveViolation(t *testing.T) {
	fleet := model.Fleet{startUnit(5)}
	s := schedule.ToInteger(schedule.Binary{{1}, {1}}, fleet.InitStatus())
	assert.Equal(t, 0, Violations(fleet, s, fleet.InitStatus(), 0.1, model.Demand{90, 90}))
	assert.Equal(t, 1, Violations(fleet, s, fleet.InitStatus(), 0.1, model.Demand{90, 95}))
	assert.Equal(t, 2, Violations(fleet, s, fleet.InitStatus(), 0.5, model.Demand{90, 95}))
}
