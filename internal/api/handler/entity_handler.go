package handler

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/response"
	"Influence/internal/pkg/util"
	"Influence/internal/service"

	"github.com/gin-gonic/gin"
)

type EntityHandler struct {
	entitySvc service.EntityService
}

func NewEntityHandler(entitySvc service.EntityService) *EntityHandler {
	return &EntityHandler{
		entitySvc: entitySvc,
	}
}

func (s *EntityHandler) AddEntity(c *gin.Context) {
	var entityDTO dto.CreateEntityDTO
	if err := c.ShouldBindJSON(&entityDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&entityDTO); err != nil {
		response.Error(c, err)
		return
	}

	entity, err := s.entitySvc.AddEntity(c.Request.Context(), &entityDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entity)
}

func (s *EntityHandler) ListEntities(c *gin.Context) {
	entities, err := s.entitySvc.ListEntities(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entities)
}

func (s *EntityHandler) GetEntity(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	entity, err := s.entitySvc.GetEntity(c.Request.Context(), entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entity)
}

func (s *EntityHandler) DeleteEntity(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.entitySvc.DeleteEntity(c.Request.Context(), entityID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *EntityHandler) SearchEntities(c *gin.Context) {
	var query dto.EntitySearchQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.entitySvc.SearchEntities(c.Request.Context(), query.Prefix, query.Cursor, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *EntityHandler) GetProfileCard(c *gin.Context) {
	entityID, err := paramID(c, "entity_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	card, err := s.entitySvc.GetProfileCard(c.Request.Context(), entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, card)
}
