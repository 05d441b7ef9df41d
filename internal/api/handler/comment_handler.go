package handler

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/response"
	"Quill/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
	}
}

// CreateForPost POST /posts/:id/comments
func (s *CommentHandler) CreateForPost(c *gin.Context) {
	var createDTO dto.CommentCreateDTO
	if err := c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.commentSvc.CreateComment(c.Request.Context(), callerFrom(c), c.Param("id"), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "评论发表成功", comment)
}

// ListForPost GET /posts/:id/comments
func (s *CommentHandler) ListForPost(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	comments, total, err := s.commentSvc.ListByPost(c.Request.Context(), callerFrom(c), c.Param("id"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, len(comments), dto.NewPagination(query.Page, query.Limit, total), comments)
}

// List GET /comments 审核队列
func (s *CommentHandler) List(c *gin.Context) {
	var query dto.CommentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	comments, total, err := s.commentSvc.ListComments(c.Request.Context(), callerFrom(c), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, len(comments), dto.NewPagination(query.Page, query.Limit, total), comments)
}

func (s *CommentHandler) Get(c *gin.Context) {
	comment, err := s.commentSvc.GetComment(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) Update(c *gin.Context) {
	var updateDTO dto.CommentUpdateDTO
	if err := c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.commentSvc.UpdateComment(c.Request.Context(), callerFrom(c), c.Param("id"), &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "评论更新成功", comment)
}

func (s *CommentHandler) Delete(c *gin.Context) {
	if err := s.commentSvc.DeleteComment(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "评论已删除", nil)
}

func (s *CommentHandler) ToggleLike(c *gin.Context) {
	result, err := s.commentSvc.ToggleLike(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *CommentHandler) Moderate(c *gin.Context) {
	var moderateDTO dto.CommentModerateDTO
	if err := c.ShouldBind(&moderateDTO); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.commentSvc.ModerateComment(c.Request.Context(), callerFrom(c), c.Param("id"), &moderateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "审核完成", comment)
}
