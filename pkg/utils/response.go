package utils

// ServiceResponse is the uniform envelope returned by every endpoint.
type ServiceResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func SuccessResponse(data interface{}, message string) ServiceResponse {
	return ServiceResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func FailureResponse(message string, errors ...string) ServiceResponse {
	return ServiceResponse{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// Externally visible rejection messages. Bad credentials and unknown
// accounts share one message so responses never reveal whether an
// account exists.
const (
	MsgInvalidLogin  = "Invalid email or password"
	MsgGenericError  = "Something went wrong. Please try again later."
	MsgInvalidCode   = "Invalid or expired code"
	MsgCodeFormat    = "Code must be exactly 6 digits"
	MsgUserExists    = "User already exists"
	MsgLoginSuccess  = "Login Successful"
	MsgRegSuccessful = "Registration Successful"
)
