package scoring

import (
	"Influence/internal/pkg/platform"
	"math"
	"sort"
)

// Point 时间序列中的一个点，Value 为 nil 表示当天没有数据
type Point struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

func missing(v float64) bool {
	return v == 0 || math.IsNaN(v)
}

// Interpolate 补齐序列中的 0 或 NaN，首个元素保持不变
// 取原序列中前后最近的有效值求平均，只有一侧有值时沿用该值，两侧都没有则为 0
func Interpolate(values []float64) []float64 {
	valid := make([]bool, len(values))
	for i, v := range values {
		valid[i] = !missing(v)
	}
	return fill(values, valid)
}

// InterpolatePoints 与 Interpolate 相同，nil 视为缺失
func InterpolatePoints(points []Point) []Point {
	values := make([]float64, len(points))
	valid := make([]bool, len(points))
	for i, p := range points {
		if p.Value != nil {
			values[i] = *p.Value
			valid[i] = !missing(*p.Value)
		}
	}
	filled := fill(values, valid)

	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{Date: p.Date, Value: p.Value}
		if i > 0 && !valid[i] {
			v := filled[i]
			out[i].Value = &v
		}
	}
	return out
}

func fill(values []float64, valid []bool) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	for i := 1; i < len(values); i++ {
		if valid[i] {
			continue
		}
		prev, hasPrev := nearest(values, valid, i, -1)
		next, hasNext := nearest(values, valid, i, 1)
		switch {
		case hasPrev && hasNext:
			out[i] = (prev + next) / 2
		case hasPrev:
			out[i] = prev
		case hasNext:
			out[i] = next
		default:
			out[i] = 0
		}
	}
	return out
}

func nearest(values []float64, valid []bool, from, step int) (float64, bool) {
	for j := from + step; j >= 0 && j < len(values); j += step {
		if valid[j] {
			return values[j], true
		}
	}
	return 0, false
}

// FillMissingScores 对每个平台的得分序列以及总分序列分别插值
// 某天没有出现的平台按缺失处理
func FillMissingScores(summary []DaySummary) []DaySummary {
	if len(summary) == 0 {
		return summary
	}

	seen := make(map[platform.Platform]struct{})
	for _, row := range summary {
		for p := range row.PlatformScores {
			seen[p] = struct{}{}
		}
	}
	platforms := make([]platform.Platform, 0, len(seen))
	for p := range seen {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	out := make([]DaySummary, len(summary))
	copy(out, summary)
	for i := range out {
		scores := make(map[platform.Platform]float64, len(platforms))
		for p, s := range summary[i].PlatformScores {
			scores[p] = s
		}
		out[i].PlatformScores = scores
	}

	for _, p := range platforms {
		values := make([]float64, len(out))
		for i, row := range out {
			values[i] = row.PlatformScores[p]
		}
		for i, v := range Interpolate(values) {
			out[i].PlatformScores[p] = v
		}
	}

	totals := make([]float64, len(out))
	for i, row := range out {
		totals[i] = row.TotalScore
	}
	for i, v := range Interpolate(totals) {
		out[i].TotalScore = v
	}
	return out
}
