package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/util"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowerHandler struct {
	followerSvc service.FollowerService
}

func NewFollowerHandler(followerSvc service.FollowerService) *FollowerHandler {
	return &FollowerHandler{
		followerSvc: followerSvc,
	}
}

func (s *FollowerHandler) GetFollowersHistory(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	graph, err := s.followerSvc.GetFollowersHistory(c.Request.Context(), entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, graph)
}

// GetFollowersComparison 与同分类实体的粉丝历史对比
func (s *FollowerHandler) GetFollowersComparison(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	graph, err := s.followerSvc.GetFollowersComparison(c.Request.Context(), entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, graph)
}

func (s *FollowerHandler) CompareEntities(c *gin.Context) {
	var compareDTO dto.CompareEntitiesDTO
	if err := c.ShouldBindJSON(&compareDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&compareDTO); err != nil {
		response.Error(c, err)
		return
	}

	graph, err := s.followerSvc.CompareEntities(c.Request.Context(), compareDTO.EntityIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, graph)
}

// GetFollowersSeries 按天补齐缺失值后的粉丝序列
func (s *FollowerHandler) GetFollowersSeries(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	points, err := s.followerSvc.GetFollowersSeries(c.Request.Context(), entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, points)
}
