package dto

import "time"

type PostDTO struct {
	ID         uint64         `json:"id"`
	PageUUID   string         `json:"page_uuid"`
	Platform   string         `json:"platform"`
	PostID     string         `json:"post_id"`
	PostedAt   *time.Time     `json:"posted_at"`
	URL        string         `json:"url"`
	Likes      int64          `json:"likes"`
	Comments   int64          `json:"comments"`
	Shares     int64          `json:"shares"`
	Views      int64          `json:"views"`
	Extra      map[string]any `json:"extra,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}
