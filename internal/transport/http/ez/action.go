// Package ez registers typed request handlers ("actions") on gin groups and
// renders every result in the {code, msg, kind, data} envelope.
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobportal/internal/domain"
	mdw "jobportal/internal/transport/http/middleware"
	resp "jobportal/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/jobs/:id/toggle-close"
	Binder  Binder
	Handler func(c *gin.Context, in *I) (O, error)
}

// Group is a gin group plus the logger used for store failures.
type Group struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) Group {
	if l == nil {
		l = zap.NewNop()
	}
	return Group{g: g, log: l}
}

// Groups are the three access levels a module mounts on.
type Groups struct {
	Public Group // 无需登录
	Viewer Group // 可选登录：匿名或合法 token
	Auth   Group // 必须登录
}

// Caller returns the identity resolved by the auth middleware.
func Caller(c *gin.Context) domain.Identity { return mdw.Identity(c) }

// RegisterAction 在当前分组下注册动作接口
func RegisterAction[I any, O any](e Group, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Fail(resp.CodeBadRequest, string(domain.KindValidation), bindErr.Error()))
			return
		}

		// 2) 执行
		out, err := a.Handler(c, &in)

		// 3) 统一错误映射
		if err != nil {
			c.JSON(http.StatusOK, e.failure(c, err))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

var kindCodes = map[domain.Kind]int{
	domain.KindValidation:   resp.CodeBadRequest,
	domain.KindUnauthorized: resp.CodeUnauthorized,
	domain.KindForbidden:    resp.CodeForbidden,
	domain.KindNotFound:     resp.CodeNotFound,
	domain.KindConflict:     resp.CodeConflict,
	domain.KindStore:        resp.CodeServerError,
}

// CodeOf maps an error kind to its envelope code.
func CodeOf(k domain.Kind) int {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return resp.CodeServerError
}

func (e Group) failure(c *gin.Context, err error) resp.Resp {
	kind := domain.KindOf(err)
	if kind != domain.KindStore {
		return resp.Fail(CodeOf(kind), string(kind), err.Error())
	}
	// 存储错误只记日志，不把底层细节回给调用方
	e.log.Error("store failure",
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
		zap.NamedError("cause", errors.Unwrap(err)),
	)
	msg := "internal error"
	var de *domain.Error
	if errors.As(err, &de) && de.Msg != "" {
		msg = de.Msg
	}
	return resp.Fail(resp.CodeServerError, string(domain.KindStore), msg)
}
