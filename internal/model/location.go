package model

// Location is a row in the durable multi-user location feed. The table is
// owned by the remote store; this is just its wire/scan shape.
type Location struct {
	ID        string   `json:"id" db:"id"`
	Owner     string   `json:"owner" db:"owner"`
	Lat       float64  `json:"lat" db:"lat"`
	Lng       float64  `json:"lng" db:"lng"`
	Accuracy  *float64 `json:"accuracy,omitempty" db:"accuracy"`
	CreatedAt int64    `json:"createdAt" db:"created_at"`
}
