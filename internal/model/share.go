package model

// ShareRecord is a single shared position held by the ephemeral registry.
// Records are immutable once written; only their liveness changes with time.
type ShareRecord struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Label     string  `json:"label"`
	CreatedAt int64   `json:"createdAt"`
	ExpiresAt *int64  `json:"expiresAt"`
}

// Live reports whether the record is still retrievable at the given
// epoch-millisecond instant. A nil ExpiresAt never expires.
func (r *ShareRecord) Live(nowMs int64) bool {
	return r.ExpiresAt == nil || nowMs < *r.ExpiresAt
}
