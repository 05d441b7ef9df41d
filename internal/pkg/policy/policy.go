// Package policy 集中维护 (操作, 资源) -> 准入规则 的决策表。
// 各 handler/service 不再各自散落角色判断，统一经由 Decide 裁决。
// 纯决策，不产生副作用。
package policy

import (
	"Quill/internal/model"
	"errors"
)

type Action string

const (
	ActionPostCreate Action = "post.create"
	ActionPostUpdate Action = "post.update"
	ActionPostDelete Action = "post.delete"

	ActionCommentUpdate   Action = "comment.update"
	ActionCommentDelete   Action = "comment.delete"
	ActionCommentModerate Action = "comment.moderate"
	ActionCommentListAll  Action = "comment.list_all"

	ActionCategoryCreate Action = "category.create"
	ActionCategoryUpdate Action = "category.update"
	ActionCategoryDelete Action = "category.delete"

	ActionTagCreate Action = "tag.create"
	ActionTagUpdate Action = "tag.update"
	ActionTagDelete Action = "tag.delete"

	ActionUserManage     Action = "user.manage"
	ActionUserDelete     Action = "user.delete"
	ActionUserDeactivate Action = "user.deactivate"

	ActionStatsView Action = "stats.view"
)

var (
	ErrUnauthenticated = errors.New("未登录或登录已失效")
	ErrForbidden       = errors.New("权限不足")
	ErrSelfForbidden   = errors.New("不能对自己的账号执行该操作")
)

// Caller 请求方身份。UserID 为 0 表示匿名调用
type Caller struct {
	UserID uint64
	Role   string
}

func (c Caller) Authenticated() bool {
	return c.UserID != 0
}

// Target 被操作资源。OwnerID 为资源作者，TargetUserID 仅用户管理类操作使用
type Target struct {
	OwnerID      uint64
	TargetUserID uint64
}

var roleLevel = map[string]int{
	model.RoleUser:   1,
	model.RoleEditor: 2,
	model.RoleAdmin:  3,
}

// rule 单条准入规则
type rule struct {
	minRole      string // 达到该角色即放行（空表示角色永不放行，仅靠 owner）
	ownerAllowed bool   // 资源作者放行，角色不限
	selfProtect  bool   // 目标为调用者本人时直接拒绝
}

var rules = map[Action]rule{
	ActionPostCreate: {minRole: model.RoleEditor},
	ActionPostUpdate: {minRole: model.RoleEditor, ownerAllowed: true},
	// 删除文章：作者或 admin，editor 不可删除他人文章
	ActionPostDelete: {minRole: model.RoleAdmin, ownerAllowed: true},

	// 评论的编辑与删除只属于作者本人，管理侧通过审核状态控制可见性
	ActionCommentUpdate:   {ownerAllowed: true},
	ActionCommentDelete:   {ownerAllowed: true},
	ActionCommentModerate: {minRole: model.RoleEditor},
	ActionCommentListAll:  {minRole: model.RoleEditor},

	ActionCategoryCreate: {minRole: model.RoleEditor},
	ActionCategoryUpdate: {minRole: model.RoleEditor},
	ActionCategoryDelete: {minRole: model.RoleAdmin},

	ActionTagCreate: {minRole: model.RoleEditor},
	ActionTagUpdate: {minRole: model.RoleEditor},
	ActionTagDelete: {minRole: model.RoleAdmin},

	ActionUserManage:     {minRole: model.RoleAdmin},
	ActionUserDelete:     {minRole: model.RoleAdmin, selfProtect: true},
	ActionUserDeactivate: {minRole: model.RoleAdmin, selfProtect: true},

	ActionStatsView: {minRole: model.RoleEditor},
}

// Decide 裁决 caller 是否可以对 target 执行 action。
// 自我保护规则优先级最高：无论角色多高，命中即拒绝。
func Decide(caller Caller, action Action, target Target) error {
	if !caller.Authenticated() {
		return ErrUnauthenticated
	}

	r, ok := rules[action]
	if !ok {
		return ErrForbidden
	}

	if r.selfProtect && target.TargetUserID == caller.UserID {
		return ErrSelfForbidden
	}

	if r.ownerAllowed && target.OwnerID != 0 && target.OwnerID == caller.UserID {
		return nil
	}

	if r.minRole != "" && roleLevel[caller.Role] >= roleLevel[r.minRole] {
		return nil
	}

	return ErrForbidden
}

// CanSeeUnpublished editor/admin 可见全部状态，其余调用方只见 published & active
func CanSeeUnpublished(caller Caller) bool {
	return roleLevel[caller.Role] >= roleLevel[model.RoleEditor]
}
