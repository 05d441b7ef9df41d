package handler

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/response"
	"Quill/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagSvc service.TagService
}

func NewTagHandler(tagSvc service.TagService) *TagHandler {
	return &TagHandler{
		tagSvc: tagSvc,
	}
}

func (s *TagHandler) Create(c *gin.Context) {
	var baseDTO dto.TagBaseDTO
	if err := c.ShouldBind(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}
	tag, err := s.tagSvc.CreateTag(c.Request.Context(), callerFrom(c), &baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "标签创建成功", tag)
}

func (s *TagHandler) List(c *gin.Context) {
	var query dto.NamedListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	tags, total, err := s.tagSvc.ListTags(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, len(tags), dto.NewPagination(query.Page, query.Limit, total), tags)
}

func (s *TagHandler) Popular(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	tags, err := s.tagSvc.PopularTags(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

func (s *TagHandler) Get(c *gin.Context) {
	tag, err := s.tagSvc.GetTag(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag)
}

func (s *TagHandler) Update(c *gin.Context) {
	var baseDTO dto.TagBaseDTO
	if err := c.ShouldBind(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}
	tag, err := s.tagSvc.UpdateTag(c.Request.Context(), callerFrom(c), c.Param("id"), &baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "标签更新成功", tag)
}

func (s *TagHandler) Delete(c *gin.Context) {
	if err := s.tagSvc.DeleteTag(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "标签已删除", nil)
}
