package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/domain"
	"jobportal/internal/service"
	"jobportal/internal/transport/http/ez"
)

type ApplicationHandler struct{ svc *service.ApplicationService }

func NewApplicationHandler(svc *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) Priority() int { return 20 }

type statusIn struct {
	Status string `json:"status" binding:"required"`
}

func (h *ApplicationHandler) MountAPI(g ez.Groups) {
	ez.RegisterAction(g.Auth, ez.Action[struct{}, *domain.Application]{
		Method: http.MethodPost,
		Path:   "/applications/:jobId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Application, error) {
			return h.svc.Apply(c, ez.Caller(c), c.Param("jobId"))
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[struct{}, []domain.Application]{
		Method: http.MethodGet,
		Path:   "/applications/my",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Application, error) {
			return h.svc.ListMine(c, ez.Caller(c))
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[struct{}, []domain.Application]{
		Method: http.MethodGet,
		Path:   "/applications/job/:jobId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Application, error) {
			return h.svc.ListForJob(c, ez.Caller(c), c.Param("jobId"))
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[struct{}, *domain.Application]{
		Method: http.MethodGet,
		Path:   "/applications/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Application, error) {
			return h.svc.GetByID(c, ez.Caller(c), c.Param("id"))
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[statusIn, *domain.Application]{
		Method: http.MethodPut,
		Path:   "/applications/:id/status",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Application, error) {
			return h.svc.SetStatus(c, ez.Caller(c), c.Param("id"), in.Status)
		},
	})
}
