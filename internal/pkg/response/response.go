package response

import (
	"Quill/internal/api/dto"
	"Quill/internal/service"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Success 成功返回封装
func Success(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, dto.Response{
		Success: true,
		Data:    data,
	})
}

// Message 变更类操作成功返回封装
func Message(ctx *gin.Context, message string, data any) {
	ctx.JSON(http.StatusOK, dto.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 创建成功返回封装
func Created(ctx *gin.Context, message string, data any) {
	ctx.JSON(http.StatusCreated, dto.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Page 列表返回封装
func Page(ctx *gin.Context, count int, pagination dto.Pagination, data any) {
	ctx.JSON(http.StatusOK, dto.ListResponse{
		Success:    true,
		Count:      count,
		Pagination: pagination,
		Data:       data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Response{
		Success: false,
		Message: message,
	})
}

// Error 处理错误：校验错误带字段明细，业务错误查 ErrorMap，其余落 500
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make([]string, 0, len(ve))
		for _, fe := range ve {
			details = append(details, fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]", fe.Field(), fe.Tag()))
		}
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Message: service.ErrParamInvalid.Error(),
			Errors:  details,
		})
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, http.StatusBadRequest, "Json错误")
		return
	}

	status, ok := service.ErrorMap[err]
	if !ok {
		log.ErrorContext(c.Request.Context(), "Unhandled Error", "err", err)
		Fail(c, http.StatusInternalServerError, service.UnExpectedError.Error())
		return
	}
	Fail(c, status, err.Error())
}
