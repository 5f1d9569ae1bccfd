package resp

// Application error codes carried in dto.ErrorResponse.Code.
const (
	CodeBadRequest    = 40000
	CodeNotFound      = 40400
	CodeInternalError = 50000
	CodeUnavailable   = 50300
)
