package dto

type CreateCategoryDTO struct {
	Name     string  `json:"name" validate:"required,max=128"`
	ParentID *uint64 `json:"parent_id,omitempty"`
}

type CategoryDTO struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	ParentID *uint64 `json:"parent_id"`
	Root     string  `json:"root,omitempty"`
}

type LinkEntityDTO struct {
	EntityID   uint64 `json:"entity_id" validate:"required"`
	CategoryID uint64 `json:"category_id" validate:"required"`
}
