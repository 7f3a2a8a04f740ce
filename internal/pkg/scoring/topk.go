package scoring

import (
	"Influence/internal/pkg/snapshot"
	"sort"
)

// RankedPost 带得分和名次的帖子
type RankedPost struct {
	snapshot.PostGain
	Score float64
	Rank  int
}

// Fields 帖子原始字段加上增量、得分和名次
func (p *RankedPost) Fields() map[string]any {
	out := p.PostGain.Fields()
	out["post_id"] = p.PostID
	out["total_score"] = p.Score
	out["rank"] = p.Rank
	return out
}

// TopPosts 当天有基线的帖子按得分降序取前 k 个，k <= 0 时不截断
// 同分时依次按帖子 id、平台、页面排序，名次为排序后的位置
func TopPosts(day snapshot.DayGains, k int) ([]RankedPost, error) {
	ranked := make([]RankedPost, 0, len(day.Posts))
	for i := range day.Posts {
		post := day.Posts[i]
		s, err := ScorePost(&post)
		if err != nil {
			return nil, err
		}
		if !post.HasGain() {
			continue
		}
		ranked = append(ranked, RankedPost{PostGain: post, Score: s})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.PostID != b.PostID {
			return a.PostID < b.PostID
		}
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.PageID < b.PageID
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// FindDay 按日期查找，找不到返回 false
func FindDay(days []snapshot.DayGains, day string) (snapshot.DayGains, bool) {
	i := sort.Search(len(days), func(i int) bool { return days[i].Day >= day })
	if i < len(days) && days[i].Day == day {
		return days[i], true
	}
	return snapshot.DayGains{}, false
}
