package errors

const (
	InternalServerError = "internal server error"
	BadRequest          = "bad request"
)
