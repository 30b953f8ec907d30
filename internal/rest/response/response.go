package response

// Envelope is the uniform success wrapper.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(message string, data any) Envelope {
	return Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

// Paginated is the uniform page wrapper.
type Paginated struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func NewPaginated(items any, total int64, page, limit int) Paginated {
	return Paginated{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}
}
