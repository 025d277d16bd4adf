package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"jobportal/internal/core/cache"
	"jobportal/internal/domain"
	"jobportal/pkg/utils"
)

// TokenIssuer signs access tokens for an identity.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

type RegisterInput struct {
	Name     string      `json:"name" binding:"required,max=64"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6,max=72"`
	Role     domain.Role `json:"role" binding:"required"`
	Avatar   string      `json:"avatar"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// ProfileInput updates only the fields that are non-empty.
type ProfileInput struct {
	Name               string `json:"name" binding:"max=64"`
	Avatar             string `json:"avatar"`
	Resume             string `json:"resume"`
	CompanyName        string `json:"companyName"`
	CompanyDescription string `json:"companyDescription"`
	CompanyLogo        string `json:"companyLogo"`
}

type UserService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	cache  *cache.Cache
	opts   options
}

// NewUserService accepts a nil cache, which disables profile caching.
func NewUserService(users domain.UserRepository, tokens TokenIssuer, c *cache.Cache, opts ...Option) *UserService {
	return &UserService{users: users, tokens: tokens, cache: c, opts: newOptions(opts)}
}

func profileKey(id string) string { return "user:profile:" + id }

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Validation("name, email and password are required")
	}
	if !in.Role.Valid() {
		return nil, domain.Validation("role must be jobseeker or employer")
	}
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeErr("load user", err)
	}
	if existing != nil {
		return nil, domain.Conflict("user already exists")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, storeErr("hash password", err)
	}
	now := s.opts.clock()
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Avatar:       in.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("user already exists")
		}
		return nil, storeErr("create user", err)
	}
	s.opts.log.Info("user registered", zap.String("userId", u.ID), zap.String("role", string(u.Role)))
	return s.issue(u)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, storeErr("load user", err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.Unauthorized("invalid email or password")
	}
	return s.issue(u)
}

func (s *UserService) issue(u *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.Identity())
	if err != nil {
		return nil, storeErr("issue token", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *UserService) Me(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	if caller.Anonymous() {
		return nil, domain.Unauthorized("authentication required")
	}
	return s.load(ctx, caller.ID)
}

// UpdateProfile never changes role or email. Company fields are ignored for
// jobseekers and the resume is ignored for employers.
func (s *UserService) UpdateProfile(ctx context.Context, caller domain.Identity, in ProfileInput) (*domain.User, error) {
	if caller.Anonymous() {
		return nil, domain.Unauthorized("authentication required")
	}
	u, err := s.load(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	setIf(&u.Name, strings.TrimSpace(in.Name))
	setIf(&u.Avatar, in.Avatar)
	if u.Role.Can(domain.CapManageResume) {
		setIf(&u.Resume, in.Resume)
	}
	if u.Role.Can(domain.CapPostJobs) {
		setIf(&u.CompanyName, in.CompanyName)
		setIf(&u.CompanyDescription, in.CompanyDescription)
		setIf(&u.CompanyLogo, in.CompanyLogo)
	}
	u.UpdatedAt = s.opts.clock()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, storeErr("update profile", err)
	}
	s.invalidate(ctx, u.ID)
	return u, nil
}

// DeleteResume clears the stored resume reference. Removing the file itself
// belongs to the upload store.
func (s *UserService) DeleteResume(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	if err := caller.Require(domain.CapManageResume); err != nil {
		return nil, err
	}
	u, err := s.load(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if u.Resume == "" {
		return nil, domain.Validation("no resume to delete")
	}
	u.Resume = ""
	u.UpdatedAt = s.opts.clock()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, storeErr("delete resume", err)
	}
	s.invalidate(ctx, u.ID)
	return u, nil
}

// PublicProfile reads through the profile cache.
func (s *UserService) PublicProfile(ctx context.Context, id string) (*domain.User, error) {
	u, err := cache.GetOrLoadJSON(s.cache, ctx, profileKey(id), s.opts.profileTTL,
		func(ctx context.Context) (*domain.User, error) {
			return s.users.FindByID(ctx, id)
		})
	if err != nil {
		return nil, storeErr("load profile", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

func (s *UserService) load(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("load user", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, profileKey(id)); err != nil {
		s.opts.log.Warn("profile cache invalidation failed", zap.String("userId", id), zap.Error(err))
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
