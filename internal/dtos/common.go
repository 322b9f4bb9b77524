// File: internal/dtos/common.go
package dtos

// ListResponseDTO is the envelope for collection endpoints.
type ListResponseDTO struct {
	Object string      `json:"object"`
	Data   interface{} `json:"data"`
}

// DeletedResponseDTO acknowledges a cascade delete.
type DeletedResponseDTO struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// ErrorResponseDTO represents an error API response.
type ErrorResponseDTO struct {
	Error ErrorBodyDTO `json:"error"`
}

// ErrorBodyDTO carries the machine-readable error kind and a human message.
type ErrorBodyDTO struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewListResponse wraps collection data in the standard envelope.
func NewListResponse(data interface{}) ListResponseDTO {
	return ListResponseDTO{Object: "list", Data: data}
}

// NewDeletedResponse builds the acknowledgement for a delete operation.
func NewDeletedResponse(id, object string) DeletedResponseDTO {
	return DeletedResponseDTO{ID: id, Object: object + ".deleted", Deleted: true}
}

// NewErrorResponse builds the standard error envelope.
func NewErrorResponse(errType, message string) ErrorResponseDTO {
	return ErrorResponseDTO{Error: ErrorBodyDTO{Type: errType, Message: message}}
}
