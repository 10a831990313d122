package shared

import (
	"errors"

	"github.com/fenxiao-mall/internal/http/response"
	"github.com/fenxiao-mall/internal/service"

	"github.com/gin-gonic/gin"
)

// serviceErrorRule 业务错误到接口错误响应的映射关系。
type serviceErrorRule struct {
	target error
	code   int
	msg    string
}

var serviceErrorRules = []serviceErrorRule{
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "resource not found"},
	{target: service.ErrInvalidStatus, code: response.CodeBadRequest, msg: "invalid status"},
	{target: service.ErrStatusConflict, code: response.CodeConflict, msg: "status changed concurrently, retry with fresh state"},
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, msg: "invalid amount"},
	{target: service.ErrAffiliateCodeInvalid, code: response.CodeBadRequest, msg: "invalid referral code"},
	{target: service.ErrInvalidTreePosition, code: response.CodeBadRequest, msg: "position must be left or right"},
	{target: service.ErrTreePositionTaken, code: response.CodeConflict, msg: "tree position already taken"},
	{target: service.ErrInvalidCredential, code: response.CodeUnauthorized, msg: "invalid credentials"},
	{target: service.ErrInconsistentState, code: response.CodeInternal, msg: "inconsistent ledger state"},
	{target: service.ErrStoreFailure, code: response.CodeInternal, msg: "storage failure"},
}

// RespondServiceError 按业务错误类型返回响应；未识别的错误按内部错误处理。
func RespondServiceError(c *gin.Context, err error) {
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.target) {
			if rule.code == response.CodeInternal {
				RespondError(c, rule.code, rule.msg, err)
			} else {
				RespondError(c, rule.code, rule.msg, nil)
			}
			return
		}
	}
	RespondError(c, response.CodeInternal, "internal error", err)
}
