package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/util"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	collectionSvc service.CollectionService
}

func NewCollectionHandler(collectionSvc service.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		collectionSvc: collectionSvc,
	}
}

// Collect 同步触发一次采集，失败时仍返回本次运行记录的错误信息
func (s *CollectionHandler) Collect(c *gin.Context) {
	var collectDTO dto.CollectDTO
	if err := c.ShouldBindJSON(&collectDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&collectDTO); err != nil {
		response.Error(c, err)
		return
	}

	run, err := s.collectionSvc.Collect(c.Request.Context(), collectDTO.Platform)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, run)
}

func (s *CollectionHandler) ListRuns(c *gin.Context) {
	var query dto.RunsQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	runs, err := s.collectionSvc.ListRuns(c.Request.Context(), query.Platform, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, runs)
}

func (s *CollectionHandler) ListPlatforms(c *gin.Context) {
	response.Success(c, s.collectionSvc.Platforms())
}
