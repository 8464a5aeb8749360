package health

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name     string
		massKg   float64
		heightM  float64
		wantBMI  float64
		wantBand Category
	}{
		{"reference value", 70.0, 1.75, 22.86, NormalWeight},
		{"just above underweight threshold", 56.95, 1.75, 18.6, NormalWeight},
		{"underweight", 70.0, 1.94936, 18.42, Underweight},
		{"normal upper boundary inclusive", 76.25, 1.75, 24.9, NormalWeight},
		{"overweight upper boundary inclusive", 91.56, 1.75, 29.9, Overweight},
		{"just past overweight boundary", 91.6, 1.75, 29.91, Obese},
		{"obese", 100.0, 1.75, 32.65, Obese},
		{"lower normal boundary", 56.66, 1.75, 18.5, NormalWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assess(tt.massKg, tt.heightM)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantBMI, got.BMI, 0.0001)
			assert.Equal(t, tt.wantBand, got.Category)
		})
	}
}

func TestAssessIsDeterministic(t *testing.T) {
	first, err := Assess(83.2, 1.81)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Assess(83.2, 1.81)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		massKg    float64
		heightM   float64
		wantParam string
	}{
		{"zero mass", 0, 1.75, ParamWeight},
		{"negative mass", -10, 1.75, ParamWeight},
		{"zero mass with bad height", 0, -1, ParamWeight},
		{"zero height", 70, 0, ParamHeight},
		{"negative height", 70, -1, ParamHeight},
		{"NaN mass", math.NaN(), 1.75, ParamWeight},
		{"NaN height", 70, math.NaN(), ParamHeight},
		{"infinite mass", math.Inf(1), 1.75, ParamWeight},
		{"infinite height", 70, math.Inf(1), ParamHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.massKg, tt.heightM)
			require.Error(t, err)

			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.wantParam, invalid.Param)
		})
	}
}

func TestComputeAlwaysPositive(t *testing.T) {
	for _, mass := range []float64{0.1, 3, 45, 70, 120, 400} {
		for _, height := range []float64{0.4, 1.2, 1.75, 2.3} {
			index, err := Compute(mass, height)
			require.NoError(t, err)
			assert.Positive(t, index)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		index float64
		want  Category
	}{
		{10, Underweight},
		{18.49, Underweight},
		{18.5, NormalWeight},
		{22, NormalWeight},
		{24.9, NormalWeight},
		{24.91, Overweight},
		{29.9, Overweight},
		{29.91, Obese},
		{45, Obese},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.index), "index %v", tt.index)
	}
}

// For a fixed height, increasing mass must never decrease the band rank.
func TestCategoryMonotonicWithMass(t *testing.T) {
	const height = 1.75

	prevRank := -1
	for mass := 30.0; mass <= 150.0; mass += 0.25 {
		got, err := Assess(mass, height)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.Category.Rank(), prevRank,
			"rank regressed at mass %.2f", mass)
		prevRank = got.Category.Rank()
	}
}

func TestCategoryJSONRoundTrip(t *testing.T) {
	a := Assessment{BMI: 22.86, Category: NormalWeight}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bmi":22.86,"assessment":"Normal weight"}`, string(data))

	var back Assessment
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)

	var cat Category
	assert.Error(t, json.Unmarshal([]byte(`"Slim"`), &cat))
}
