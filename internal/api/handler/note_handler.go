package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/util"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteSvc service.NoteService
}

func NewNoteHandler(noteSvc service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteSvc: noteSvc,
	}
}

func (s *NoteHandler) CreateNote(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var noteDTO dto.CreateNoteDTO
	if err := c.ShouldBindJSON(&noteDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&noteDTO); err != nil {
		response.Error(c, err)
		return
	}

	note, err := s.noteSvc.CreateNote(c.Request.Context(), userID, &noteDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, note)
}

func (s *NoteHandler) GetNote(c *gin.Context) {
	userID := c.GetUint64("user_id")

	note, err := s.noteSvc.GetNote(c.Request.Context(), c.Param("note_id"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, note)
}

// ListForTarget 目标上的公开备注加上自己的私有备注
func (s *NoteHandler) ListForTarget(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.NoteTargetQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.noteSvc.ListForTarget(c.Request.Context(), query.TargetType, query.TargetID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) ListMine(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.PageSizeQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	notes, err := s.noteSvc.ListByAuthor(c.Request.Context(), userID, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

func (s *NoteHandler) UpdateNote(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var noteDTO dto.UpdateNoteDTO
	if err := c.ShouldBindJSON(&noteDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&noteDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.noteSvc.UpdateNote(c.Request.Context(), c.Param("note_id"), userID, &noteDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoteHandler) ArchiveNote(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.noteSvc.ArchiveNote(c.Request.Context(), c.Param("note_id"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NoteHandler) DeleteNote(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.noteSvc.DeleteNote(c.Request.Context(), c.Param("note_id"), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
