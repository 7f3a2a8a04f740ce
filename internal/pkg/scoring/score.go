package scoring

import (
	"Influence/internal/pkg/platform"
	"Influence/internal/pkg/snapshot"
)

// Score 按权重累加指标值，缺失的指标按 0 计
func Score(metrics []platform.Metric, values map[string]int64) float64 {
	var score float64
	for _, m := range metrics {
		score += float64(values[m.Name]) * m.Weight
	}
	return score
}

// ScoreGains 使用注册表中平台的指标权重计算得分
func ScoreGains(name string, gains map[string]int64) (float64, error) {
	schema, err := platform.Lookup(name)
	if err != nil {
		return 0, err
	}
	return Score(schema.Metrics, gains), nil
}

// ScorePost 帖子得分，没有基线的新帖子得分为 0
func ScorePost(g *snapshot.PostGain) (float64, error) {
	if !g.HasGain() {
		_, err := platform.Parse(string(g.Platform))
		return 0, err
	}
	return ScoreGains(string(g.Platform), g.Gains)
}
