package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "Invalid email or password",
	}

	ErrAuthRequired = ErrorResponse{
		Status:  "error",
		Error:   "auth_required",
		Details: "Login required",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "user_already_exists",
		Details: "User with this email already exists",
	}

	ErrEmailTaken = ErrorResponse{
		Status:  "error",
		Error:   "email_taken",
		Details: "Email is used by another account",
	}

	ErrWrongPassword = ErrorResponse{
		Status:  "error",
		Error:   "wrong_password",
		Details: "Current password does not match",
	}

	ErrProductNotFound = ErrorResponse{
		Status:  "error",
		Error:   "product_not_found",
		Details: "Product not found",
	}

	ErrProductUnpriced = ErrorResponse{
		Status:  "error",
		Error:   "product_unpriced",
		Details: "Product price is not available",
	}

	ErrStorageUnavailable = ErrorResponse{
		Status:  "error",
		Error:   "storage_unavailable",
		Details: "Operation failed, try again",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
