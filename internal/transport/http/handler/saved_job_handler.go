package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/domain"
	"jobportal/internal/service"
	"jobportal/internal/transport/http/ez"
)

type SavedJobHandler struct{ svc *service.SavedJobService }

func NewSavedJobHandler(svc *service.SavedJobService) *SavedJobHandler {
	return &SavedJobHandler{svc: svc}
}

func (h *SavedJobHandler) MountAPI(g ez.Groups) {
	ez.RegisterAction(g.Auth, ez.Action[struct{}, *domain.SavedJob]{
		Method: http.MethodPost,
		Path:   "/saved-jobs/:jobId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.SavedJob, error) {
			return h.svc.Save(c, ez.Caller(c), c.Param("jobId"))
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/saved-jobs/:jobId",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			jobID := c.Param("jobId")
			if err := h.svc.Unsave(c, ez.Caller(c), jobID); err != nil {
				return nil, err
			}
			return gin.H{"jobId": jobID}, nil
		},
	})

	ez.RegisterAction(g.Auth, ez.Action[struct{}, []domain.SavedJob]{
		Method: http.MethodGet,
		Path:   "/saved-jobs/my",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.SavedJob, error) {
			return h.svc.ListMine(c, ez.Caller(c))
		},
	})
}
