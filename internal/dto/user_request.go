package dto

type RegisterRequest struct {
	Name            string  `json:"name"`
	Dob             string  `json:"dob"`
	Age             *int64  `json:"age"`
	Gender          *string `json:"gender"`
	Designation     string  `json:"designation"`
	Department      string  `json:"department"`
	Email           string  `json:"email"`
	PhoneNumber     *string `json:"phone_number"`
	Address         *string `json:"address"`
	Password        string  `json:"password"`
	Role            string  `json:"role"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest carries a partial update: nil fields leave the stored
// values untouched. A non-empty Password rotates the stored credential.
type UpdateUserRequest struct {
	ID              int64
	Name            *string `json:"name"`
	Dob             *string `json:"dob"`
	Age             *int64  `json:"age"`
	Gender          *string `json:"gender"`
	Designation     *string `json:"designation"`
	Department      *string `json:"department"`
	Email           *string `json:"email"`
	PhoneNumber     *string `json:"phone_number"`
	Address         *string `json:"address"`
	Password        string  `json:"password"`
	ProfileImageURL *string `json:"profile_image_url"`
}
