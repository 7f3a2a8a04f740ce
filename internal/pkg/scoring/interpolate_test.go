package scoring

import (
	"Influence/internal/pkg/platform"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"midpoint", []float64{100, 0, 200}, []float64{100, 150, 200}},
		{"two gaps", []float64{100, 0, 0, 400}, []float64{100, 250, 250, 400}},
		{"carry forward", []float64{100, 0}, []float64{100, 100}},
		{"carry backward", []float64{0, 0, 5}, []float64{0, 5, 5}},
		{"nothing valid", []float64{0, 0}, []float64{0, 0}},
		{"negative is valid", []float64{-2, 0, 4}, []float64{-2, 1, 4}},
		{"empty", []float64{}, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.in))
		})
	}
}

func TestInterpolateNaN(t *testing.T) {
	out := Interpolate([]float64{math.NaN(), math.NaN(), 6})
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 6.0, out[1])
}

func TestInterpolateDoesNotMutate(t *testing.T) {
	in := []float64{1, 0, 3}
	Interpolate(in)
	assert.Equal(t, []float64{1, 0, 3}, in)
}

func TestInterpolatePoints(t *testing.T) {
	v := func(f float64) *float64 { return &f }
	out := InterpolatePoints([]Point{
		{Date: "d1", Value: nil},
		{Date: "d2", Value: v(10)},
		{Date: "d3", Value: nil},
		{Date: "d4", Value: v(0)},
		{Date: "d5", Value: v(30)},
	})
	require.Len(t, out, 5)
	assert.Nil(t, out[0].Value)
	assert.Equal(t, 10.0, *out[1].Value)
	assert.Equal(t, 20.0, *out[2].Value)
	assert.Equal(t, 20.0, *out[3].Value)
	assert.Equal(t, "d5", out[4].Date)
}

func TestFillMissingScores(t *testing.T) {
	summary := []DaySummary{
		{Date: "d1", TotalScore: 10, PlatformScores: map[platform.Platform]float64{platform.Instagram: 10}},
		{Date: "d2", TotalScore: 0, PlatformScores: map[platform.Platform]float64{}},
		{Date: "d3", TotalScore: 34, PlatformScores: map[platform.Platform]float64{platform.Instagram: 30, platform.X: 4}},
	}

	out := FillMissingScores(summary)
	require.Len(t, out, 3)
	assert.Equal(t, []float64{10, 20, 30}, []float64{
		out[0].PlatformScores[platform.Instagram],
		out[1].PlatformScores[platform.Instagram],
		out[2].PlatformScores[platform.Instagram],
	})
	assert.Equal(t, 0.0, out[0].PlatformScores[platform.X])
	assert.Equal(t, 4.0, out[1].PlatformScores[platform.X])
	assert.Equal(t, 22.0, out[1].TotalScore)

	assert.Empty(t, summary[1].PlatformScores)
	assert.Zero(t, summary[1].TotalScore)
	assert.Empty(t, FillMissingScores(nil))
}

func TestInterpolateKeepsValidPoints(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("valid points and the first element are untouched", prop.ForAll(
		func(values []float64) bool {
			out := Interpolate(values)
			if len(out) != len(values) {
				return false
			}
			for i, v := range values {
				if (i == 0 || v != 0) && out[i] != v {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.OneGenOf(gen.Const(0.0), gen.Float64Range(-1000, 1000))),
	))

	properties.Property("gaps stay within neighbouring values", prop.ForAll(
		func(values []float64) bool {
			out := Interpolate(values)
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, v := range values {
				if v != 0 {
					lo = math.Min(lo, v)
					hi = math.Max(hi, v)
				}
			}
			for i := 1; i < len(out); i++ {
				if values[i] != 0 {
					continue
				}
				if math.IsInf(lo, 1) {
					if out[i] != 0 {
						return false
					}
					continue
				}
				if out[i] < lo || out[i] > hi {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.OneGenOf(gen.Const(0.0), gen.Float64Range(1, 1000))),
	))

	properties.TestingRun(t)
}
