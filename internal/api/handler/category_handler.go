package handler

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/response"
	"Quill/internal/service"

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

func (s *CategoryHandler) Create(c *gin.Context) {
	var baseDTO dto.CategoryBaseDTO
	if err := c.ShouldBind(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}
	category, err := s.categorySvc.CreateCategory(c.Request.Context(), callerFrom(c), &baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "分类创建成功", category)
}

func (s *CategoryHandler) List(c *gin.Context) {
	var query dto.NamedListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	categories, total, err := s.categorySvc.ListCategories(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, len(categories), dto.NewPagination(query.Page, query.Limit, total), categories)
}

func (s *CategoryHandler) Get(c *gin.Context) {
	category, err := s.categorySvc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

func (s *CategoryHandler) Update(c *gin.Context) {
	var baseDTO dto.CategoryBaseDTO
	if err := c.ShouldBind(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}
	category, err := s.categorySvc.UpdateCategory(c.Request.Context(), callerFrom(c), c.Param("id"), &baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "分类更新成功", category)
}

func (s *CategoryHandler) Delete(c *gin.Context) {
	if err := s.categorySvc.DeleteCategory(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "分类已删除", nil)
}
