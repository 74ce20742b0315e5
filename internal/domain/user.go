package domain

type User struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// SeedUsers is the collection every fresh store starts with.
func SeedUsers() []User {
	return []User{
		{ID: 1, Name: "John Doe"},
		{ID: 2, Name: "Jane Smith"},
		{ID: 3, Name: "Bob Johnson"},
	}
}
