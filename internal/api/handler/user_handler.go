package handler

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/response"
	"Quill/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

func userIDParam(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, service.ErrUserNotFound
	}
	return id, nil
}

func (s *UserHandler) List(c *gin.Context) {
	var query dto.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	users, total, err := s.userSvc.ListUsers(c.Request.Context(), callerFrom(c), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, len(users), dto.NewPagination(query.Page, query.Limit, total), users)
}

func (s *UserHandler) Create(c *gin.Context) {
	var createDTO dto.UserCreateDTO
	if err := c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	user, err := s.userSvc.CreateUser(c.Request.Context(), callerFrom(c), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "用户创建成功", user)
}

func (s *UserHandler) Get(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	user, err := s.userSvc.GetUser(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) Update(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var updateDTO dto.UserUpdateDTO
	if err := c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	user, err := s.userSvc.UpdateUser(c.Request.Context(), callerFrom(c), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "用户更新成功", user)
}

func (s *UserHandler) Delete(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := s.userSvc.DeleteUser(c.Request.Context(), callerFrom(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "用户已删除", nil)
}
