package contact

// SubmitRequest is the public contact form.
type SubmitRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=32"`
	Car     string `json:"car" validate:"max=255"`
	Message string `json:"message" validate:"max=4000"`
	Type    string `json:"type" validate:"max=32"`
}

// relayPayload is what the relay endpoint receives.
type relayPayload struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Car     string `json:"car,omitempty"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type"`
	Created string `json:"created_at"`
}
