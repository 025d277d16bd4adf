package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/domain"
	"jobportal/internal/service"
	"jobportal/internal/transport/http/ez"
)

// UserHandler 注册/登录与个人资料
type UserHandler struct{ svc *service.UserService }

func NewUserHandler(svc *service.UserService) *UserHandler { return &UserHandler{svc: svc} }

// 认证路由最先挂
func (h *UserHandler) Priority() int { return 0 }

func (h *UserHandler) MountAPI(g ez.Groups) {
	ez.RegisterAction(g.Public, ez.Action[service.RegisterInput, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*service.AuthResult, error) {
			return h.svc.Register(c, *in)
		},
	})

	ez.RegisterAction(g.Public, ez.Action[service.LoginInput, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.AuthResult, error) {
			return h.svc.Login(c, *in)
		},
	})

	// ⚠️ /auth/me 必须挂在鉴权分组，才能拿到 userId
	ez.RegisterAction(g.Auth, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.Me(c, ez.Caller(c))
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[service.ProfileInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/profile",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ProfileInput) (*domain.User, error) {
			return h.svc.UpdateProfile(c, ez.Caller(c), *in)
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[struct{}, *domain.User]{
		Method: http.MethodDelete,
		Path:   "/users/resume",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.DeleteResume(c, ez.Caller(c))
		},
	})

	ez.RegisterAction(g.Public, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.PublicProfile(c, c.Param("id"))
		},
	})
}
