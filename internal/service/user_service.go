package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/consts"
	"Quill/internal/pkg/policy"
	"Quill/internal/pkg/redis"
	"Quill/internal/pkg/security"
	"Quill/internal/repository"
	"context"
	"errors"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.TokenDTO, error)
	Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)

	ListUsers(ctx context.Context, caller policy.Caller, query *dto.UserListQuery) ([]*dto.UserDTO, int64, error)
	CreateUser(ctx context.Context, caller policy.Caller, createDTO *dto.UserCreateDTO) (*dto.UserDTO, error)
	GetUser(ctx context.Context, caller policy.Caller, id uint64) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, caller policy.Caller, id uint64, updateDTO *dto.UserUpdateDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, caller policy.Caller, id uint64) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

// isDuplicateEntry MySQL 1062 唯一键冲突
func isDuplicateEntry(err error) bool {
	var mysqlErr *gomysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func toUserDTO(user *model.User) (*dto.UserDTO, error) {
	userDTO := &dto.UserDTO{}
	if err := copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	return userDTO, nil
}

// Register 开放注册，角色固定为 user，注册成功直接签发 Token
func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.TokenDTO, error) {
	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     regDTO.Name,
		Email:    regDTO.Email,
		Password: passwordHash,
		Role:     model.RoleUser,
		IsActive: true,
	}

	// 唯一索引兜底并发注册，不做先查后插
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrEmailExist
		}
		return nil, err
	}

	return s.issueToken(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.GetByEmail(ctx, loginDTO.Email)
	if err != nil {
		return nil, err
	}
	// 用户不存在与密码错误返回同一错误，不泄露邮箱是否注册
	if user == nil || security.CheckPasswordHash(loginDTO.Password, user.Password) != nil {
		return nil, ErrCredentialsInvalid
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issueToken(user)
}

func (s *UserServiceImpl) issueToken(user *model.User) (*dto.TokenDTO, error) {
	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	userDTO, err := toUserDTO(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{Token: token, User: userDTO}, nil
}

// blacklistTTL 黑名单键存活到 Token 自然过期为止
func blacklistTTL(claims *security.UserClaims) time.Duration {
	return time.Until(claims.ExpiresAt.Time)
}

// Logout 将 Token 签名加入黑名单，有效期取 Token 剩余生命周期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return err
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	ttl := blacklistTTL(claims)
	if ttl <= 0 {
		return nil
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, true, ttl)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, caller policy.Caller, query *dto.UserListQuery) ([]*dto.UserDTO, int64, error) {
	if err := policy.Decide(caller, policy.ActionUserManage, policy.Target{}); err != nil {
		return nil, 0, err
	}
	query.Normalize()

	filter := repository.UserFilter{
		Role:     query.Role,
		IsActive: query.IsActive,
		Search:   query.Search,
	}
	users, total, err := s.userRepo.List(ctx, filter, query.Page, query.Limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		userDTO, err := toUserDTO(user)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, userDTO)
	}
	return result, total, nil
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, caller policy.Caller, createDTO *dto.UserCreateDTO) (*dto.UserDTO, error) {
	if err := policy.Decide(caller, policy.ActionUserManage, policy.Target{}); err != nil {
		return nil, err
	}

	role := createDTO.Role
	if role == "" {
		role = model.RoleUser
	}

	passwordHash, err := security.HashPassword(createDTO.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     createDTO.Name,
		Email:    createDTO.Email,
		Password: passwordHash,
		Role:     role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrEmailExist
		}
		return nil, err
	}
	return toUserDTO(user)
}

func (s *UserServiceImpl) GetUser(ctx context.Context, caller policy.Caller, id uint64) (*dto.UserDTO, error) {
	if err := policy.Decide(caller, policy.ActionUserManage, policy.Target{}); err != nil {
		return nil, err
	}
	return s.GetUserInfo(ctx, id)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, caller policy.Caller, id uint64, updateDTO *dto.UserUpdateDTO) (*dto.UserDTO, error) {
	if err := policy.Decide(caller, policy.ActionUserManage, policy.Target{}); err != nil {
		return nil, err
	}
	// 管理员不能停用自己的账号
	if updateDTO.IsActive != nil && !*updateDTO.IsActive {
		if err := policy.Decide(caller, policy.ActionUserDeactivate, policy.Target{TargetUserID: id}); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if updateDTO.Name != nil {
		user.Name = *updateDTO.Name
	}
	if updateDTO.Email != nil {
		user.Email = *updateDTO.Email
	}
	if updateDTO.Password != nil {
		passwordHash, err := security.HashPassword(*updateDTO.Password)
		if err != nil {
			return nil, err
		}
		user.Password = passwordHash
	}
	if updateDTO.Role != nil {
		user.Role = *updateDTO.Role
	}
	if updateDTO.IsActive != nil {
		user.IsActive = *updateDTO.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrEmailExist
		}
		return nil, err
	}
	return toUserDTO(user)
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, caller policy.Caller, id uint64) error {
	if err := policy.Decide(caller, policy.ActionUserDelete, policy.Target{TargetUserID: id}); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(ctx, id)
}
