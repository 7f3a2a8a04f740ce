package consts

// 实体类型
const (
	EntityTypeCompany       = "company"
	EntityTypeInfluencer    = "influencer"
	EntityTypeSmallBusiness = "small-business"
)

// 备注的目标类型
const (
	NoteTargetPost              = "post"
	NoteTargetInteractionsGraph = "interactions_graph"
	NoteTargetFollowersGraph    = "followers_graph"
)

const (
	NoteVisibilityPublic  = "public"
	NoteVisibilityPrivate = "private"
)

const (
	NoteStatusActive   = "active"
	NoteStatusArchived = "archived"
	NoteStatusDeleted  = "deleted"
)

const (
	DefaultTopPosts    = 10
	MaxTopPosts        = 100
	DefaultRecentPosts = 20
)

// IsEntityType 是否为支持的实体类型
func IsEntityType(t string) bool {
	switch t {
	case EntityTypeCompany, EntityTypeInfluencer, EntityTypeSmallBusiness:
		return true
	}
	return false
}

// IsNoteTarget 是否为支持的备注目标
func IsNoteTarget(t string) bool {
	switch t {
	case NoteTargetPost, NoteTargetInteractionsGraph, NoteTargetFollowersGraph:
		return true
	}
	return false
}
