package handler

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/response"
	"Quill/internal/service"

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

func (s *PostHandler) Create(c *gin.Context) {
	var createDTO dto.PostCreateDTO
	if err := c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	post, err := s.postSvc.CreatePost(c.Request.Context(), callerFrom(c), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "文章创建成功", post)
}

func (s *PostHandler) List(c *gin.Context) {
	var query dto.PostListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	posts, total, err := s.postSvc.GetPostList(c.Request.Context(), callerFrom(c), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, len(posts), dto.NewPagination(query.Page, query.Limit, total), posts)
}

func (s *PostHandler) Get(c *gin.Context) {
	post, err := s.postSvc.GetPost(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) Update(c *gin.Context) {
	var updateDTO dto.PostUpdateDTO
	if err := c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	post, err := s.postSvc.UpdatePost(c.Request.Context(), callerFrom(c), c.Param("id"), &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "文章更新成功", post)
}

func (s *PostHandler) Delete(c *gin.Context) {
	if err := s.postSvc.DeletePost(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "文章已删除", nil)
}

func (s *PostHandler) ToggleLike(c *gin.Context) {
	result, err := s.postSvc.ToggleLike(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostHandler) Related(c *gin.Context) {
	posts, err := s.postSvc.GetRelatedPosts(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}
