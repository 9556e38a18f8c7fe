package fitness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
)

func smallProblem() *domain.Problem {
	return &domain.Problem{
		ID:         "small",
		Activities: 2,
		Shifts:     2,
		Feasible:   [][]bool{{true, true}, {true, true}},
		Travel: [][]float64{
			{0, 2, 4},
			{2, 0, 3},
			{4, 3, 0},
		},
		Start:         []float64{5, 10},
		End:           []float64{8, 12},
		Duration:      []float64{1, 2},
		ShiftDuration: []float64{20, 20},
		WX:            1,
		WY:            10,
		WZ:            0.5,
	}
}

func TestDecodeSingleShift(t *testing.T) {
	f := NewHHCRSP(smallProblem())

	schedule, err := f.Decode([]float64{0.2, 0.7})
	require.NoError(t, err)
	require.Len(t, schedule.Routes, 1)

	r := schedule.Routes[0]
	assert.Equal(t, 0, r.Shift)
	assert.Equal(t, []int{0, 1}, r.Activities)
	assert.Equal(t, []float64{5, 10}, r.Arrivals)
	assert.Equal(t, 3.0, r.Start)
	assert.Equal(t, 16.0, r.End)
	assert.Equal(t, 9.0, r.Travel)
	assert.Equal(t, 1.0, r.Waiting)
	assert.Equal(t, 0.0, r.Overtime)
	assert.Equal(t, 0, r.Late)

	assert.Equal(t, 9.5, schedule.Cost)
	assert.True(t, schedule.Feasible)
	assert.Equal(t, []int{1}, f.SubProblemsSolved([]float64{0.2, 0.7}))
}

func TestDecodePriorityOrder(t *testing.T) {
	f := NewHHCRSP(smallProblem())

	schedule, err := f.Decode([]float64{0.7, 0.2})
	require.NoError(t, err)
	require.Len(t, schedule.Routes, 1)

	r := schedule.Routes[0]
	assert.Equal(t, []int{1, 0}, r.Activities)
	assert.Equal(t, 6.0, r.Start)
	assert.Equal(t, []float64{10, 15}, r.Arrivals)
	assert.Equal(t, 1, r.Late)
	assert.Equal(t, 9.0, schedule.Cost)
	assert.False(t, schedule.Feasible)
	assert.Equal(t, []int{0}, f.SubProblemsSolved([]float64{0.7, 0.2}))
}

func TestDecodeTiesByActivity(t *testing.T) {
	f := NewHHCRSP(smallProblem())

	schedule, err := f.Decode([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, schedule.Routes[0].Activities)
}

func TestDecodeSeparateShifts(t *testing.T) {
	f := NewHHCRSP(smallProblem())

	schedule, err := f.Decode([]float64{1.5, 0.5})
	require.NoError(t, err)
	require.Len(t, schedule.Routes, 2)
	assert.Equal(t, 0, schedule.Routes[0].Shift)
	assert.Equal(t, []int{1}, schedule.Routes[0].Activities)
	assert.Equal(t, 1, schedule.Routes[1].Shift)
	assert.Equal(t, []int{0}, schedule.Routes[1].Activities)

	cost, err := f.Evaluate(context.Background(), []float64{1.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 12.0, cost)
}

func TestEvaluateOvertime(t *testing.T) {
	p := smallProblem()
	p.ShiftDuration = []float64{5, 5}
	f := NewHHCRSP(p)

	schedule, err := f.Decode([]float64{0.2, 0.7})
	require.NoError(t, err)
	assert.Equal(t, 8.0, schedule.Overtime)
	assert.False(t, schedule.Feasible)

	cost, err := f.Evaluate(context.Background(), []float64{0.2, 0.7})
	require.NoError(t, err)
	assert.Equal(t, 89.5, cost)
}

func TestEvaluateInvalidGenes(t *testing.T) {
	p := smallProblem()
	p.Feasible[1][1] = false
	f := NewHHCRSP(p)

	tests := []struct {
		name  string
		genes []float64
	}{
		{"length", []float64{0.5}},
		{"negative shift", []float64{-0.5, 0.5}},
		{"shift out of range", []float64{2.5, 0.5}},
		{"infeasible shift", []float64{0.5, 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Evaluate(context.Background(), tt.genes)
			assert.ErrorIs(t, err, ErrInvalidGenes)
			assert.Equal(t, []int{0}, f.SubProblemsSolved(tt.genes))
		})
	}
}
