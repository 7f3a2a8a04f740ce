package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/util"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, err := paramID(c, "post_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPostsByPlatform(c *gin.Context) {
	var query dto.PlatformPostsQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.GetPostsByPlatform(c.Request.Context(), query.Platform, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) GetPostsByEntity(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.LimitQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.GetPostsByEntity(c.Request.Context(), entityID, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// GetPostHistory 帖子在各次快照中的指标，最新的在前
func (s *PostHandler) GetPostHistory(c *gin.Context) {
	var query dto.PostHistoryQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	history, err := s.postSvc.GetPostHistory(c.Request.Context(), query.PageUUID, query.Platform, query.PostID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}
