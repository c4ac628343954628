package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

type ServiceResult struct {
	StatusCode int                 `json:"code"`
	Data       any                 `json:"data"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
	// Headers are written before the body.
	Headers map[string]string `json:"-"`
}

type RateLimitResponse struct {
	Limit      int    `json:"limit"`
	Window     string `json:"window"`
	RetryAfter string `json:"retry_after"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	body := gin.H{
		"success": result.IsSuccess(),
		"code":    result.StatusCode,
		"data":    result.Data,
		"message": result.Message,
	}
	if len(result.Errors) > 0 {
		body["errors"] = result.Errors
	}
	return body
}

func (result *ServiceResult) WithHeader(key, value string) *ServiceResult {
	if result.Headers == nil {
		result.Headers = make(map[string]string, 1)
	}
	result.Headers[key] = value
	return result
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}
