package response

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

type codeErr struct {
	code uint32
	msg  string
}

func (e codeErr) Error() string {
	return e.msg
}

func (e codeErr) Code() uint32 {
	return e.code
}

func Success(c *gin.Context, data interface{}) {
	proxyutil.SuccessJson(c, data)
}

// Error replies with a business error code; the transport status stays 200
// so the shell always reads the same envelope.
func Error(c *gin.Context, code int, message string) {
	proxyutil.FailJson(c, 200, codeErr{code: uint32(code), msg: message})
}
