package handlers

// MessageResponse is the JSON body of the htmx product delete endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

const (
	msgDeleteSucceeded = "Success"
	msgDeleteFailed    = "Deleting product failed"
)
