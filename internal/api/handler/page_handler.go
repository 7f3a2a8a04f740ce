package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/util"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	pageSvc service.PageService
}

func NewPageHandler(pageSvc service.PageService) *PageHandler {
	return &PageHandler{
		pageSvc: pageSvc,
	}
}

func (s *PageHandler) AddPage(c *gin.Context) {
	var pageDTO dto.CreatePageDTO
	if err := c.ShouldBindJSON(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}

	page, err := s.pageSvc.AddPage(c.Request.Context(), &pageDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *PageHandler) ListPages(c *gin.Context) {
	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	pages, err := s.pageSvc.ListPages(c.Request.Context(), query.Platform, query.EntityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pages)
}

func (s *PageHandler) DeletePage(c *gin.Context) {
	pageID, err := paramID(c, "page_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.pageSvc.DeletePage(c.Request.Context(), pageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
