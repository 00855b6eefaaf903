package response

// AppError 统一错误包装
type AppError struct {
	Code    int
	Message string
	Data    interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithData 附带响应数据，如字段级错误
func (e *AppError) WithData(data interface{}) *AppError {
	if e == nil {
		return nil
	}
	e.Data = data
	return e
}
