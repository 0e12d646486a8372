package model

// Genre is a row of the `genres` table.
type Genre struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Rating is an age rating (MPA) from the `ratings` table.
type Rating struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Director is a row of the `directors` table.
type Director struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
