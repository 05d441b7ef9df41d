package service

import (
	"Quill/internal/pkg/policy"
	"errors"
	"net/http"
)

var (
	ErrParamInvalid = errors.New("参数错误")

	ErrEmailExist         = errors.New("邮箱已被注册")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrCredentialsInvalid = errors.New("邮箱或密码错误")
	ErrAccountDisabled    = errors.New("账号已被停用")

	ErrPostNotFound = errors.New("文章不存在")
	ErrSlugExist    = errors.New("文章 slug 已存在")

	ErrCategoryNotFound  = errors.New("分类不存在")
	ErrCategoryInvalid   = errors.New("分类不存在或已停用")
	ErrCategoryNameExist = errors.New("分类名称已存在")
	ErrCategoryInUse     = errors.New("该分类下存在文章，无法删除")

	ErrTagNotFound  = errors.New("标签不存在")
	ErrTagInvalid   = errors.New("标签不存在或已停用")
	ErrTagNameExist = errors.New("标签名称已存在")
	ErrTagInUse     = errors.New("该标签下存在文章，无法删除")

	ErrCommentNotFound        = errors.New("评论不存在")
	ErrParentCommentInvalid   = errors.New("父评论不存在或不属于该文章")
	ErrModerationStatusInvalid = errors.New("审核状态无效，只允许 approved 或 rejected")

	UnExpectedError = errors.New("系统异常，请稍后重试")
)

// ErrorMap 业务错误到 HTTP 状态码的映射。
// 校验/引用完整性/唯一冲突 400，认证 401，授权 403，未找到 404。
var ErrorMap = map[error]int{
	ErrParamInvalid: http.StatusBadRequest,

	ErrEmailExist:         http.StatusBadRequest,
	ErrUserNotFound:       http.StatusNotFound,
	ErrCredentialsInvalid: http.StatusUnauthorized,
	ErrAccountDisabled:    http.StatusUnauthorized,

	ErrPostNotFound: http.StatusNotFound,
	ErrSlugExist:    http.StatusBadRequest,

	ErrCategoryNotFound:  http.StatusNotFound,
	ErrCategoryInvalid:   http.StatusBadRequest,
	ErrCategoryNameExist: http.StatusBadRequest,
	ErrCategoryInUse:     http.StatusBadRequest,

	ErrTagNotFound:  http.StatusNotFound,
	ErrTagInvalid:   http.StatusBadRequest,
	ErrTagNameExist: http.StatusBadRequest,
	ErrTagInUse:     http.StatusBadRequest,

	ErrCommentNotFound:         http.StatusNotFound,
	ErrParentCommentInvalid:    http.StatusBadRequest,
	ErrModerationStatusInvalid: http.StatusBadRequest,

	policy.ErrUnauthenticated: http.StatusUnauthorized,
	policy.ErrForbidden:       http.StatusForbidden,
	policy.ErrSelfForbidden:   http.StatusForbidden,

	UnExpectedError: http.StatusInternalServerError,
}
