package dto

import "time"

// APIResponse is the envelope of every API response
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ListData is the payload of the active-person listings.
type ListData struct {
	Count int           `json:"count"`
	Items []interface{} `json:"items"`
}

// QueueData reports the outcome of an enqueue request.
type QueueData struct {
	Queue    string `json:"queue"`
	Key      string `json:"key"`
	Inserted bool   `json:"inserted"`
}

// HealthData is the payload of /health.
type HealthData struct {
	Status string            `json:"status"`
	Mode   string            `json:"mode"`
	Checks map[string]string `json:"checks"`
	Uptime string            `json:"uptime"`
}
