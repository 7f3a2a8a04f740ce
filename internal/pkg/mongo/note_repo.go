package mongo

import (
	"Influence/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NoteRepo interface {
	CreateNote(ctx context.Context, note *NoteModel) error
	GetByID(ctx context.Context, id string) (*NoteModel, error)
	ListForTarget(ctx context.Context, targetType string, targetID, viewerID uint64) ([]*NoteModel, error)
	ListByAuthor(ctx context.Context, authorID uint64, limit, offset int64) ([]*NoteModel, error)
	UpdateContent(ctx context.Context, id string, authorID uint64, content, visibility string) (bool, error)
	SetStatus(ctx context.Context, id string, authorID uint64, status string) (bool, error)
}

type noteRepoImpl struct {
	col *mongo.Collection
}

func NewNoteRepo(db *mongo.Database) NoteRepo {
	return &noteRepoImpl{
		col: db.Collection(NoteCollection),
	}
}

func (s *noteRepoImpl) CreateNote(ctx context.Context, note *NoteModel) error {
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, note)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		note.ID = id
	}
	return nil
}

// GetByID 非法 id 与不存在都返回 nil
func (s *noteRepoImpl) GetByID(ctx context.Context, id string) (*NoteModel, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var note NoteModel
	err = s.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// ListForTarget 目标下未删除的备注，私有备注只对作者可见，按时间倒序
func (s *noteRepoImpl) ListForTarget(ctx context.Context, targetType string, targetID, viewerID uint64) ([]*NoteModel, error) {
	filter := bson.M{
		"target_type": targetType,
		"target_id":   targetID,
		"status":      bson.M{"$ne": consts.NoteStatusDeleted},
		"$or": bson.A{
			bson.M{"visibility": consts.NoteVisibilityPublic},
			bson.M{"author_id": viewerID},
		},
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	return s.find(ctx, filter, opts)
}

func (s *noteRepoImpl) ListByAuthor(ctx context.Context, authorID uint64, limit, offset int64) ([]*NoteModel, error) {
	filter := bson.M{
		"author_id": authorID,
		"status":    bson.M{"$ne": consts.NoteStatusDeleted},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	return s.find(ctx, filter, opts)
}

// UpdateContent 只有作者本人能修改，返回是否命中
func (s *noteRepoImpl) UpdateContent(ctx context.Context, id string, authorID uint64, content, visibility string) (bool, error) {
	set := bson.M{"content": content, "updated_at": time.Now()}
	if visibility != "" {
		set["visibility"] = visibility
	}
	return s.updateOwned(ctx, id, authorID, bson.M{"$set": set})
}

func (s *noteRepoImpl) SetStatus(ctx context.Context, id string, authorID uint64, status string) (bool, error) {
	return s.updateOwned(ctx, id, authorID, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
}

func (s *noteRepoImpl) updateOwned(ctx context.Context, id string, authorID uint64, update bson.M) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	filter := bson.M{
		"_id":       objectID,
		"author_id": authorID,
		"status":    bson.M{"$ne": consts.NoteStatusDeleted},
	}
	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (s *noteRepoImpl) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*NoteModel, error) {
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	notes := make([]*NoteModel, 0)
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
