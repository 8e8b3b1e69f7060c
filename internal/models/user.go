package models

// User represents a person who can be added to groups.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}
