package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应体。HTTP 状态码恒为 200，
// 业务结果由 status_code 表达；warnings 用于
// 主体已落库、部分副作用待补齐的场景。
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// PageResponse 分页响应体
type PageResponse struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 计算总页数并组装分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

func write(c *gin.Context, body Response) {
	c.JSON(http.StatusOK, body)
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: "success", Data: data})
}

// SuccessWithWarnings 携带警告的成功响应
func SuccessWithWarnings(c *gin.Context, data interface{}, warnings []string) {
	write(c, Response{StatusCode: CodeOK, Msg: "success", Data: data, Warnings: warnings})
}

// SuccessWithMsg 自定义消息的成功响应
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: msg, Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, PageResponse{
		StatusCode: CodeOK,
		Msg:        "success",
		Data:       data,
		Pagination: pagination,
	})
}

// Error 错误响应
func Error(c *gin.Context, statusCode int, msg string) {
	write(c, Response{StatusCode: statusCode, Msg: msg, Data: attachRequestID(c, nil)})
}

// ErrorWithData 携带数据的错误响应
func ErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	write(c, Response{StatusCode: statusCode, Msg: msg, Data: attachRequestID(c, data)})
}

// BadRequest 参数错误
func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

// Unauthorized 未认证
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// NotFound 资源不存在
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// attachRequestID 错误响应里带上请求 ID，便于用户反馈时定位日志
func attachRequestID(c *gin.Context, data interface{}) interface{} {
	requestID := ""
	if c != nil {
		if value, ok := c.Get("request_id"); ok {
			if id, ok := value.(string); ok {
				requestID = id
			}
		}
	}
	if requestID == "" {
		return data
	}
	switch v := data.(type) {
	case nil:
		return gin.H{"request_id": requestID}
	case gin.H:
		if _, ok := v["request_id"]; !ok {
			v["request_id"] = requestID
		}
		return v
	case map[string]interface{}:
		if _, ok := v["request_id"]; !ok {
			v["request_id"] = requestID
		}
		return v
	default:
		return gin.H{"request_id": requestID, "data": data}
	}
}
