package response

// ErrCode identifies the canned error messages the API returns.
type ErrCode string

const (
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrRouteNotFound  ErrCode = "ROUTE_NOT_FOUND"
	ErrMethod         ErrCode = "METHOD_NOT_ALLOWED"
	ErrInternal       ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrNotFound:
		return "Row does not exist"
	case ErrInvalidPayload:
		return "The request body must be valid JSON."
	case ErrRouteNotFound:
		return "Route not found."
	case ErrMethod:
		return "Method not allowed."
	case ErrInternal:
		return "Internal server error."
	default:
		return "Unexpected error."
	}
}
