package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/snapshot"
	"Influence/internal/pkg/util"
	"Influence/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	rankingSvc service.RankingService
}

func NewRankingHandler(rankingSvc service.RankingService) *RankingHandler {
	return &RankingHandler{
		rankingSvc: rankingSvc,
	}
}

// GetRanking 全局粉丝排行，未授权用户只能看到公开视图
func (s *RankingHandler) GetRanking(c *gin.Context) {
	entities, err := s.rankingSvc.GetRanking(c.Request.Context(), viewerOf(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entities)
}

func (s *RankingHandler) GetCategoryRanking(c *gin.Context) {
	categoryID, err := paramID(c, "category_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	entities, err := s.rankingSvc.GetCategoryRanking(c.Request.Context(), categoryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entities)
}

func (s *RankingHandler) GetCompetitorRanking(c *gin.Context) {
	var competitorDTO dto.CompetitorRankingDTO
	if err := c.ShouldBindJSON(&competitorDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&competitorDTO); err != nil {
		response.Error(c, err)
		return
	}

	entities, err := s.rankingSvc.GetCompetitorRanking(c.Request.Context(), competitorDTO.EntityIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entities)
}

func (s *RankingHandler) GetRootCategoryRanking(c *gin.Context) {
	groups, err := s.rankingSvc.GetRootCategoryRanking(c.Request.Context(), viewerOf(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, groups)
}

func (s *RankingHandler) GetLeaderboard(c *gin.Context) {
	var query dto.CountQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	entities, err := s.rankingSvc.GetLeaderboard(c.Request.Context(), query.N)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entities)
}

func (s *RankingHandler) RefreshRanking(c *gin.Context) {
	if err := s.rankingSvc.RefreshRanking(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ExportRanking 归档指定日期的排行，默认前一天
func (s *RankingHandler) ExportRanking(c *gin.Context) {
	var query dto.ExportQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}
	day := query.Day
	if day == "" {
		day = snapshot.DayOf(time.Now().Add(-24 * time.Hour))
	}

	if err := s.rankingSvc.ExportRanking(c.Request.Context(), day); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"day": day})
}

func (s *RankingHandler) GetExportedRanking(c *gin.Context) {
	var query dto.ExportQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}
	day := query.Day
	if day == "" {
		day = snapshot.DayOf(time.Now().Add(-24 * time.Hour))
	}

	export, err := s.rankingSvc.GetExportedRanking(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, export)
}
