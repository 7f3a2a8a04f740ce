package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/mongo"
	"Influence/internal/repository"
	"context"
	"strings"
)

const maxNotePageSize = 100

type NoteService interface {
	CreateNote(ctx context.Context, authorID uint64, noteDTO *dto.CreateNoteDTO) (*mongo.NoteModel, error)
	GetNote(ctx context.Context, id string, viewerID uint64) (*mongo.NoteModel, error)
	ListForTarget(ctx context.Context, targetType string, targetID, viewerID uint64) ([]*mongo.NoteModel, error)
	ListByAuthor(ctx context.Context, authorID uint64, page, pageSize int) ([]*mongo.NoteModel, error)
	UpdateNote(ctx context.Context, id string, authorID uint64, noteDTO *dto.UpdateNoteDTO) error
	ArchiveNote(ctx context.Context, id string, authorID uint64) error
	DeleteNote(ctx context.Context, id string, authorID uint64) error
}

type noteServiceImpl struct {
	noteRepo     mongo.NoteRepo
	postDBRepo   repository.PostRepo
	entityDBRepo repository.EntityRepo
}

func NewNoteService(noteRepo mongo.NoteRepo, postDBRepo repository.PostRepo, entityDBRepo repository.EntityRepo) NoteService {
	return &noteServiceImpl{
		noteRepo:     noteRepo,
		postDBRepo:   postDBRepo,
		entityDBRepo: entityDBRepo,
	}
}

// CreateNote 帖子备注的目标为 posts.id，图表备注的目标为实体 id
func (s *noteServiceImpl) CreateNote(ctx context.Context, authorID uint64, noteDTO *dto.CreateNoteDTO) (*mongo.NoteModel, error) {
	if authorID == 0 {
		return nil, UnauthorizedError
	}
	content := strings.TrimSpace(noteDTO.Content)
	if content == "" {
		return nil, ErrParamInvalid
	}
	if err := s.checkTarget(ctx, noteDTO.TargetType, noteDTO.TargetID); err != nil {
		return nil, err
	}

	visibility := noteDTO.Visibility
	if visibility == "" {
		visibility = consts.NoteVisibilityPrivate
	}
	note := &mongo.NoteModel{
		TargetType: noteDTO.TargetType,
		TargetID:   noteDTO.TargetID,
		AuthorID:   authorID,
		Content:    content,
		Visibility: visibility,
		Status:     consts.NoteStatusActive,
	}
	if err := s.noteRepo.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// GetNote 私有备注对非作者表现为不存在
func (s *noteServiceImpl) GetNote(ctx context.Context, id string, viewerID uint64) (*mongo.NoteModel, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil || note.Status == consts.NoteStatusDeleted {
		return nil, ErrNoteNotFound
	}
	if note.Visibility != consts.NoteVisibilityPublic && note.AuthorID != viewerID {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *noteServiceImpl) ListForTarget(ctx context.Context, targetType string, targetID, viewerID uint64) ([]*mongo.NoteModel, error) {
	if !consts.IsNoteTarget(targetType) {
		return nil, ErrNoteTargetInvalid
	}
	return s.noteRepo.ListForTarget(ctx, targetType, targetID, viewerID)
}

func (s *noteServiceImpl) ListByAuthor(ctx context.Context, authorID uint64, page, pageSize int) ([]*mongo.NoteModel, error) {
	if authorID == 0 {
		return nil, UnauthorizedError
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxNotePageSize {
		pageSize = 20
	}
	return s.noteRepo.ListByAuthor(ctx, authorID, int64(pageSize), int64((page-1)*pageSize))
}

func (s *noteServiceImpl) UpdateNote(ctx context.Context, id string, authorID uint64, noteDTO *dto.UpdateNoteDTO) error {
	content := strings.TrimSpace(noteDTO.Content)
	if content == "" {
		return ErrParamInvalid
	}
	if err := s.checkOwner(ctx, id, authorID); err != nil {
		return err
	}
	ok, err := s.noteRepo.UpdateContent(ctx, id, authorID, content, noteDTO.Visibility)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoteNotFound
	}
	return nil
}

func (s *noteServiceImpl) ArchiveNote(ctx context.Context, id string, authorID uint64) error {
	return s.setStatus(ctx, id, authorID, consts.NoteStatusArchived)
}

// DeleteNote 软删除
func (s *noteServiceImpl) DeleteNote(ctx context.Context, id string, authorID uint64) error {
	return s.setStatus(ctx, id, authorID, consts.NoteStatusDeleted)
}

func (s *noteServiceImpl) setStatus(ctx context.Context, id string, authorID uint64, status string) error {
	if err := s.checkOwner(ctx, id, authorID); err != nil {
		return err
	}
	ok, err := s.noteRepo.SetStatus(ctx, id, authorID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoteNotFound
	}
	return nil
}

func (s *noteServiceImpl) checkOwner(ctx context.Context, id string, authorID uint64) error {
	if authorID == 0 {
		return UnauthorizedError
	}
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if note == nil || note.Status == consts.NoteStatusDeleted {
		return ErrNoteNotFound
	}
	if note.AuthorID != authorID {
		return ErrNoteForbidden
	}
	return nil
}

func (s *noteServiceImpl) checkTarget(ctx context.Context, targetType string, targetID uint64) error {
	switch targetType {
	case consts.NoteTargetPost:
		post, err := s.postDBRepo.GetPostById(ctx, targetID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
	case consts.NoteTargetInteractionsGraph, consts.NoteTargetFollowersGraph:
		entity, err := s.entityDBRepo.GetEntityById(ctx, targetID)
		if err != nil {
			return err
		}
		if entity == nil {
			return ErrEntityNotFound
		}
	default:
		return ErrNoteTargetInvalid
	}
	return nil
}
