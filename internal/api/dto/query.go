package dto

// 查询参数，绑定 URL query

type EntitySearchQueryDTO struct {
	Prefix string `form:"prefix" validate:"required,max=128"`
	Cursor string `form:"cursor"`
	Size   int    `form:"size" validate:"omitempty,min=1,max=100"`
}

type PageQueryDTO struct {
	Platform string `form:"platform" validate:"omitempty,platform"`
	EntityID uint64 `form:"entity_id"`
}

type PlatformQueryDTO struct {
	Platform string `form:"platform" validate:"required,platform"`
}

type TopPostsQueryDTO struct {
	Platform string `form:"platform" validate:"required,platform"`
	Day      string `form:"day" validate:"omitempty,datetime=2006-01-02"`
	K        int    `form:"k" validate:"omitempty,min=1,max=100"`
}

type LimitQueryDTO struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=500"`
}

type PlatformPostsQueryDTO struct {
	Platform string `form:"platform" validate:"required,platform"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=500"`
}

type PostHistoryQueryDTO struct {
	PageUUID string `form:"page_uuid" validate:"required,uuid"`
	Platform string `form:"platform" validate:"required,platform"`
	PostID   string `form:"post_id" validate:"required,max=128"`
}

type NoteTargetQueryDTO struct {
	TargetType string `form:"target_type" validate:"required,note_target"`
	TargetID   uint64 `form:"target_id" validate:"required"`
}

type PageSizeQueryDTO struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type RunsQueryDTO struct {
	Platform string `form:"platform" validate:"omitempty,platform"`
	Limit    int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// CountQueryDTO 最近帖子数、排行榜名次等数量参数
type CountQueryDTO struct {
	N int `form:"n" validate:"omitempty,min=1,max=100"`
}

type ExportQueryDTO struct {
	Day string `form:"day" validate:"omitempty,datetime=2006-01-02"`
}
