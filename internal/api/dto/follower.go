package dto

type FollowerRecordDTO struct {
	Date      string `json:"date"`
	Platform  string `json:"platform"`
	Followers int64  `json:"followers"`
}

type FollowerSeriesDTO struct {
	EntityID uint64              `json:"entity_id"`
	Records  []FollowerRecordDTO `json:"records"`
}

// FollowerGraph 以实体名为键的粉丝历史
type FollowerGraph map[string]*FollowerSeriesDTO

type CompareEntitiesDTO struct {
	EntityIDs []uint64 `json:"entity_ids" validate:"required,min=1,max=50"`
}
