package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/service"
	"jobportal/internal/transport/http/ez"
)

type AnalyticsHandler struct{ svc *service.AnalyticsService }

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) MountAPI(g ez.Groups) {
	ez.RegisterAction(g.Auth, ez.Action[struct{}, *service.Overview]{
		Method: http.MethodGet,
		Path:   "/analytics/overview",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Overview, error) {
			return h.svc.Overview(c, ez.Caller(c))
		},
	})
}
