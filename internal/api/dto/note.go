package dto

type CreateNoteDTO struct {
	TargetType string `json:"target_type" validate:"required,note_target"`
	TargetID   uint64 `json:"target_id" validate:"required"`
	Content    string `json:"content" validate:"required,max=5000"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public private"`
}

type UpdateNoteDTO struct {
	Content    string `json:"content" validate:"required,max=5000"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public private"`
}
