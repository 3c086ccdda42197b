package dto

type LoginResponse struct {
	UserID int64  `json:"id"`
	Token  string `json:"token"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

type UserResponse struct {
	ID              int64   `json:"id"`
	ExternalID      string  `json:"external_id"`
	Name            string  `json:"name"`
	Dob             string  `json:"dob,omitempty"`
	Age             *int64  `json:"age,omitempty"`
	Gender          *string `json:"gender,omitempty"`
	Designation     string  `json:"designation,omitempty"`
	Department      string  `json:"department,omitempty"`
	Email           string  `json:"email"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
	Address         *string `json:"address,omitempty"`
	Role            string  `json:"role"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	IsActive        bool    `json:"is_active"`
	CreatedAt       int64   `json:"created_at"`
	UpdatedAt       int64   `json:"updated_at"`
	DeletedAt       *int64  `json:"deleted_at,omitempty"`
}

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}
