package domain

// User is the durable identity record. Timestamps are Unix milliseconds.
// Version backs the optimistic-concurrency check on updates.
type User struct {
	ID              int64   `db:"id"`
	ExternalID      string  `db:"external_id"`
	Name            string  `db:"name"`
	Dob             string  `db:"dob"`
	Age             *int64  `db:"age"`
	Gender          *string `db:"gender"`
	Designation     string  `db:"designation"`
	Department      string  `db:"department"`
	Email           string  `db:"email"`
	PhoneNumber     *string `db:"phone_number"`
	Address         *string `db:"address"`
	HashedPassword  string  `db:"hashed_password"`
	Role            string  `db:"role"`
	ProfileImageURL *string `db:"profile_image_url"`
	IsActive        bool    `db:"is_active"`
	Version         int64   `db:"version"`
	CreatedAt       int64   `db:"created_at"`
	UpdatedAt       int64   `db:"updated_at"`
	DeletedAt       *int64  `db:"deleted_at"`
}

// UserHistory is the audit copy written alongside every mutation.
type UserHistory struct {
	ID              int64   `db:"id"`
	UserID          int64   `db:"user_id"`
	ExternalID      string  `db:"external_id"`
	Name            string  `db:"name"`
	Dob             string  `db:"dob"`
	Age             *int64  `db:"age"`
	Gender          *string `db:"gender"`
	Designation     string  `db:"designation"`
	Department      string  `db:"department"`
	Email           string  `db:"email"`
	PhoneNumber     *string `db:"phone_number"`
	Address         *string `db:"address"`
	HashedPassword  string  `db:"hashed_password"`
	Role            string  `db:"role"`
	ProfileImageURL *string `db:"profile_image_url"`
	IsActive        bool    `db:"is_active"`
	Version         int64   `db:"version"`
	CreatedAt       int64   `db:"created_at"`
	UpdatedAt       int64   `db:"updated_at"`
	DeletedAt       *int64  `db:"deleted_at"`
}
