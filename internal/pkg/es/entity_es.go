package es

import "time"

// EntityES 对应 entity_index 的文档结构
type EntityES struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Categories []string  `json:"categories"`
	Platforms  []string  `json:"platforms"`
	CreatedAt  time.Time `json:"created_at"`

	Sort []interface{} `json:"-"`
}
