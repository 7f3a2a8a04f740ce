package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/util"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionSvc service.InteractionService
}

func NewInteractionHandler(interactionSvc service.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionSvc: interactionSvc,
	}
}

// GetInteractionStats 按天返回帖子及其 gained_<metric>
func (s *InteractionHandler) GetInteractionStats(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.PlatformQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	stats, err := s.interactionSvc.GetInteractionStats(c.Request.Context(), entityID, query.Platform)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *InteractionHandler) GetScoreSummary(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.PlatformQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	summary, err := s.interactionSvc.GetScoreSummary(c.Request.Context(), entityID, query.Platform)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

func (s *InteractionHandler) GetTopPosts(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.TopPostsQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.interactionSvc.GetTopPosts(c.Request.Context(), entityID, query.Platform, query.Day, query.K)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *InteractionHandler) GetRecentPosts(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.CountQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.interactionSvc.GetRecentPosts(c.Request.Context(), entityID, query.N)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}
