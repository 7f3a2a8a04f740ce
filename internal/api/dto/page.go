package dto

type CreatePageDTO struct {
	Name     string `json:"name" validate:"required,max=255"`
	Link     string `json:"link" validate:"required,url,max=512"`
	Platform string `json:"platform" validate:"required,platform"`
	EntityID uint64 `json:"entity_id" validate:"required"`
}

type PageDTO struct {
	ID       uint64 `json:"id"`
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	Link     string `json:"link"`
	Platform string `json:"platform"`
	EntityID uint64 `json:"entity_id"`
}
