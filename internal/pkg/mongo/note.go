package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const NoteCollection = "notes"

// NoteModel 分析备注，挂在帖子或实体的图表上
type NoteModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TargetType string             `bson:"target_type" json:"target_type"` // post / interactions_graph / followers_graph
	TargetID   uint64             `bson:"target_id" json:"target_id"`     // 帖子为 posts.id，图表为实体 id
	AuthorID   uint64             `bson:"author_id" json:"author_id"`
	Content    string             `bson:"content" json:"content"`
	Visibility string             `bson:"visibility" json:"visibility"` // public / private
	Status     string             `bson:"status" json:"status"`         // active / archived / deleted
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
