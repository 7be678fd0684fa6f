package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	logicv1 "github.com/yys/user-service/internal/logic/v1"
)

// Envelope codes. Business errors carry their own code (default 500);
// validation failures always map to 400.
const (
	codeSuccess    = 200
	codeBadRequest = 400
	codeInternal   = 500
)

// Response is the uniform envelope applied to every API response.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// respondOK writes a success envelope. data may be nil.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: codeSuccess, Message: "success", Data: data})
}

// respondError writes an error envelope. The HTTP status mirrors the
// envelope code when it is a valid status, otherwise 500.
func respondError(c *gin.Context, code int, message string) {
	status := code
	if status < 100 || status > 599 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{Code: code, Message: message, Data: nil})
}

// respondBindError maps a gin binding failure to a 400 envelope carrying the
// first violated field's message, or the raw error for malformed payloads.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		respondError(c, codeBadRequest, fmt.Sprintf("field '%s' failed on the '%s' rule", fe.Field(), fe.Tag()))
		return
	}
	respondError(c, codeBadRequest, err.Error())
}

// respondServiceError maps a logic-layer failure to an error envelope:
// business errors surface their own code and message verbatim, anything
// else (storage or cache connectivity) becomes an undifferentiated 500.
func respondServiceError(c *gin.Context, err error) {
	if be, ok := logicv1.AsBusinessError(err); ok {
		respondError(c, be.Code, be.Message)
		return
	}
	respondError(c, codeInternal, "internal server error")
}
