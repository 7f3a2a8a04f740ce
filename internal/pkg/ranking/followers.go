package ranking

import (
	"Influence/internal/pkg/platform"
	"sort"
	"time"
)

// FollowerRow 单个页面的一次粉丝数快照
type FollowerRow struct {
	EntityID   uint64
	EntityName string
	PageID     string
	PageURL    string
	Platform   platform.Platform
	RecordedAt time.Time
	// Followers 为 nil 表示快照里没有粉丝字段
	Followers  *int64
	ProfileURL string
	Biography  string
}

// PlatformStat 实体在单个平台上的粉丝汇总
type PlatformStat struct {
	PageID     string `json:"page_id"`
	Followers  int64  `json:"followers"`
	ProfileURL string `json:"profile_url"`
	PageURL    string `json:"page_url"`
}

// RankedEntity 排名结果中的一个实体
type RankedEntity struct {
	EntityID       uint64                             `json:"entity_id"`
	EntityName     string                             `json:"entity_name"`
	TotalFollowers int64                              `json:"total_followers"`
	Rank           int                                `json:"rank"`
	Category       string                             `json:"category"`
	Platforms      map[platform.Platform]PlatformStat `json:"platforms"`
}

// LatestPerPage 每个页面保留 recorded_at 最大且带粉丝数的一行
func LatestPerPage(rows []FollowerRow) []FollowerRow {
	latest := make(map[string]int, len(rows))
	out := make([]FollowerRow, 0, len(rows))
	for _, r := range rows {
		if r.Followers == nil {
			continue
		}
		key := string(r.Platform) + "|" + r.PageID
		i, ok := latest[key]
		if !ok {
			latest[key] = len(out)
			out = append(out, r)
			continue
		}
		if r.RecordedAt.After(out[i].RecordedAt) {
			out[i] = r
		}
	}
	return out
}

// RankByFollowers 按实体汇总各页面最新粉丝数并排名
// 同一平台多个页面时粉丝数相加，链接取粉丝最多的页面
func RankByFollowers(rows []FollowerRow) []RankedEntity {
	byEntity := make(map[uint64]*RankedEntity)
	best := make(map[uint64]map[platform.Platform]int64)
	for _, r := range LatestPerPage(rows) {
		e, ok := byEntity[r.EntityID]
		if !ok {
			e = &RankedEntity{
				EntityID:   r.EntityID,
				EntityName: r.EntityName,
				Platforms:  make(map[platform.Platform]PlatformStat),
			}
			byEntity[r.EntityID] = e
			best[r.EntityID] = make(map[platform.Platform]int64)
		}
		n := *r.Followers
		e.TotalFollowers += n

		stat, seen := e.Platforms[r.Platform]
		if !seen || n > best[r.EntityID][r.Platform] {
			best[r.EntityID][r.Platform] = n
			stat.PageID = r.PageID
			stat.ProfileURL = r.ProfileURL
			stat.PageURL = r.PageURL
		}
		stat.Followers += n
		e.Platforms[r.Platform] = stat
	}

	entities := make([]RankedEntity, 0, len(byEntity))
	for _, e := range byEntity {
		entities = append(entities, *e)
	}
	AssignRanks(entities)
	return entities
}

// AssignRanks 按总粉丝数降序排序并赋予 RANK() 名次
// 粉丝数相同名次相同，下一个名次跳过并列的个数，并列时按名称和 id 排序
func AssignRanks(entities []RankedEntity) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.TotalFollowers != b.TotalFollowers {
			return a.TotalFollowers > b.TotalFollowers
		}
		if a.EntityName != b.EntityName {
			return a.EntityName < b.EntityName
		}
		return a.EntityID < b.EntityID
	})
	for i := range entities {
		if i > 0 && entities[i].TotalFollowers == entities[i-1].TotalFollowers {
			entities[i].Rank = entities[i-1].Rank
			continue
		}
		entities[i].Rank = i + 1
	}
}

// Filter 只保留给定实体并在子集内重新排名
func Filter(entities []RankedEntity, ids []uint64) []RankedEntity {
	keep := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := make([]RankedEntity, 0, len(ids))
	for _, e := range entities {
		if _, ok := keep[e.EntityID]; ok {
			out = append(out, e)
		}
	}
	AssignRanks(out)
	return out
}
