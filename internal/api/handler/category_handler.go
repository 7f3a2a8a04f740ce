package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/util"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categorySvc: categorySvc,
	}
}

func (s *CategoryHandler) AddCategory(c *gin.Context) {
	var categoryDTO dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&categoryDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&categoryDTO); err != nil {
		response.Error(c, err)
		return
	}

	category, err := s.categorySvc.AddCategory(c.Request.Context(), &categoryDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

func (s *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := s.categorySvc.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

func (s *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := paramID(c, "category_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.categorySvc.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CategoryHandler) LinkEntity(c *gin.Context) {
	var linkDTO dto.LinkEntityDTO
	if err := c.ShouldBindJSON(&linkDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&linkDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.categorySvc.LinkEntity(c.Request.Context(), &linkDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
