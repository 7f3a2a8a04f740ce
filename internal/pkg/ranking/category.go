package ranking

import "sort"

// Category 分类树节点
type Category struct {
	ID       uint64
	Name     string
	ParentID *uint64
}

// Membership 实体与分类的关联行
type Membership struct {
	EntityID     uint64
	EntityName   string
	CategoryID   uint64
	CategoryName string
}

// Tree 分类树，父节点缺失或成环时在该处截断
type Tree struct {
	nodes    map[uint64]Category
	children map[uint64][]uint64
}

func NewTree(categories []Category) *Tree {
	t := &Tree{
		nodes:    make(map[uint64]Category, len(categories)),
		children: make(map[uint64][]uint64),
	}
	for _, c := range categories {
		t.nodes[c.ID] = c
	}
	for _, c := range categories {
		if c.ParentID != nil && *c.ParentID != c.ID {
			t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
		}
	}
	for _, ids := range t.children {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return t
}

func (t *Tree) Get(id uint64) (Category, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

// Root 沿父节点向上找到最顶层的分类
func (t *Tree) Root(id uint64) (Category, bool) {
	c, ok := t.nodes[id]
	if !ok {
		return Category{}, false
	}
	visited := map[uint64]struct{}{c.ID: {}}
	for c.ParentID != nil {
		parent, ok := t.nodes[*c.ParentID]
		if !ok {
			break
		}
		if _, loop := visited[parent.ID]; loop {
			break
		}
		visited[parent.ID] = struct{}{}
		c = parent
	}
	return c, true
}

// Descendants 返回该分类及其所有子孙分类的 id
func (t *Tree) Descendants(id uint64) []uint64 {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	out := []uint64{id}
	visited := map[uint64]struct{}{id: {}}
	for i := 0; i < len(out); i++ {
		for _, child := range t.children[out[i]] {
			if _, ok := visited[child]; ok {
				continue
			}
			visited[child] = struct{}{}
			out = append(out, child)
		}
	}
	return out
}

// EntitiesIn 属于该分类或其子分类的实体 id
func (t *Tree) EntitiesIn(id uint64, memberships []Membership) []uint64 {
	scope := make(map[uint64]struct{})
	for _, c := range t.Descendants(id) {
		scope[c] = struct{}{}
	}
	seen := make(map[uint64]struct{})
	var ids []uint64
	for _, m := range memberships {
		if _, ok := scope[m.CategoryID]; !ok {
			continue
		}
		if _, ok := seen[m.EntityID]; ok {
			continue
		}
		seen[m.EntityID] = struct{}{}
		ids = append(ids, m.EntityID)
	}
	return ids
}

// Annotate 为每个实体填写主分类，多个分类时取名称最小的
func Annotate(entities []RankedEntity, memberships []Membership) {
	primary := make(map[uint64]string)
	for _, m := range memberships {
		if cur, ok := primary[m.EntityID]; !ok || m.CategoryName < cur {
			primary[m.EntityID] = m.CategoryName
		}
	}
	for i := range entities {
		entities[i].Category = primary[entities[i].EntityID]
	}
}

// RootGroup 顶层分类下的排名
type RootGroup struct {
	RootID   uint64         `json:"root_id"`
	Root     string         `json:"root_category"`
	Entities []RankedEntity `json:"entities"`
}

// GroupByRoot 将实体按所属分类的顶层分类分组，每组内重新排名
// 一个实体可以出现在多个分组中，没有分类的实体不出现
func GroupByRoot(entities []RankedEntity, memberships []Membership, tree *Tree) []RootGroup {
	members := make(map[uint64]map[uint64]struct{})
	roots := make(map[uint64]Category)
	for _, m := range memberships {
		root, ok := tree.Root(m.CategoryID)
		if !ok {
			continue
		}
		roots[root.ID] = root
		if members[root.ID] == nil {
			members[root.ID] = make(map[uint64]struct{})
		}
		members[root.ID][m.EntityID] = struct{}{}
	}

	groups := make([]RootGroup, 0, len(roots))
	for id, root := range roots {
		g := RootGroup{RootID: id, Root: root.Name}
		for _, e := range entities {
			if _, ok := members[id][e.EntityID]; ok {
				e.Category = root.Name
				g.Entities = append(g.Entities, e)
			}
		}
		if len(g.Entities) == 0 {
			continue
		}
		AssignRanks(g.Entities)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Root != groups[j].Root {
			return groups[i].Root < groups[j].Root
		}
		return groups[i].RootID < groups[j].RootID
	})
	return groups
}
