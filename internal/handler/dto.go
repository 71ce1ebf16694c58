package handler

// === Requests ===

type DeleteRequest struct {
	SearchTerm string `json:"searchTerm" validate:"required"`
}

// === Responses ===

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
