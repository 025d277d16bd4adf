package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/domain"
	"jobportal/internal/service"
	"jobportal/internal/transport/http/ez"
)

type JobHandler struct{ svc *service.JobService }

func NewJobHandler(svc *service.JobService) *JobHandler { return &JobHandler{svc: svc} }

func (h *JobHandler) Priority() int { return 10 }

func (h *JobHandler) MountAPI(g ez.Groups) {
	// --- GET /jobs  目录检索，登录用户附带收藏/投递状态 ---
	ez.RegisterAction(g.Viewer, ez.Action[domain.JobSearchCriteria, []domain.JobView]{
		Method: http.MethodGet,
		Path:   "/jobs",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *domain.JobSearchCriteria) ([]domain.JobView, error) {
			return h.svc.Search(c, *in, ez.Caller(c).ID)
		},
	})

	ez.RegisterAction(g.Viewer, ez.Action[struct{}, *domain.JobView]{
		Method: http.MethodGet,
		Path:   "/jobs/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.JobView, error) {
			return h.svc.GetByID(c, c.Param("id"), ez.Caller(c).ID)
		},
	})

	// --- GET /jobs/employer-mine  雇主自己的职位 + 投递数 ---
	ez.RegisterAction(g.Auth, ez.Action[struct{}, []domain.JobWithCount]{
		Method: http.MethodGet,
		Path:   "/jobs/employer-mine",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.JobWithCount, error) {
			caller := ez.Caller(c)
			return h.svc.ListForEmployer(c, caller, caller.ID)
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[domain.JobInput, *domain.Job]{
		Method: http.MethodPost,
		Path:   "/jobs",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.JobInput) (*domain.Job, error) {
			return h.svc.Create(c, ez.Caller(c), *in)
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[domain.JobInput, *domain.Job]{
		Method: http.MethodPut,
		Path:   "/jobs/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *domain.JobInput) (*domain.Job, error) {
			return h.svc.Update(c, ez.Caller(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[struct{}, *domain.Job]{
		Method: http.MethodPut,
		Path:   "/jobs/:id/toggle-close",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Job, error) {
			return h.svc.ToggleClose(c, ez.Caller(c), c.Param("id"))
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/jobs/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Delete(c, ez.Caller(c), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
