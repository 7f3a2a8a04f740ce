package ranking

import "strings"

const (
	RoleAdmin      = "admin"
	RoleSubscribed = "subscribed"
	RoleRegistered = "registered"
	RoleAnonymous  = "anonymous"
	RolePublic     = "public"
)

// DefaultPublicTopN 未授权用户可见的全局前 N 名
const DefaultPublicTopN = 10

// Viewer 请求方的角色，由鉴权中间件解析
type Viewer struct {
	UserID string
	Roles  []string
}

// Privileged 管理员和订阅用户可以看到完整排名
func (v Viewer) Privileged() bool {
	for _, r := range v.Roles {
		switch strings.ToLower(strings.TrimSpace(r)) {
		case RoleAdmin, RoleSubscribed:
			return true
		}
	}
	return false
}

// PublicView 全局前 topN 名，再为每个尚未出现的分类补上该分类排名最高的实体
// 结果保持原排名顺序和名次，按实体 id 去重
func PublicView(entities []RankedEntity, memberships []Membership, topN int) []RankedEntity {
	if topN <= 0 {
		topN = DefaultPublicTopN
	}
	if len(entities) <= topN {
		return entities
	}

	categories := make(map[uint64][]uint64)
	for _, m := range memberships {
		categories[m.EntityID] = append(categories[m.EntityID], m.CategoryID)
	}

	picked := make(map[uint64]struct{}, topN)
	represented := make(map[uint64]struct{})
	for _, e := range entities[:topN] {
		picked[e.EntityID] = struct{}{}
		for _, c := range categories[e.EntityID] {
			represented[c] = struct{}{}
		}
	}

	for _, e := range entities[topN:] {
		for _, c := range categories[e.EntityID] {
			if _, ok := represented[c]; ok {
				continue
			}
			represented[c] = struct{}{}
			picked[e.EntityID] = struct{}{}
		}
	}

	out := make([]RankedEntity, 0, len(picked))
	for _, e := range entities {
		if _, ok := picked[e.EntityID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// ApplyVisibility 按请求方角色返回完整排名或公开视图
func ApplyVisibility(viewer Viewer, entities []RankedEntity, memberships []Membership, topN int) []RankedEntity {
	if viewer.Privileged() {
		return entities
	}
	return PublicView(entities, memberships, topN)
}
