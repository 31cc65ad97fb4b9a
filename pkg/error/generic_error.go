package error

// GenericError is implemented by every typed API error so the recovery
// middleware can map it to an HTTP status and machine readable code.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
