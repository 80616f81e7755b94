package entities

import "time"

// BaseTime holds the audit columns shared by every table. The store fills
// both fields; callers never set them.
type BaseTime struct {
	CreatedDate  time.Time `json:"created_date"`
	ModifiedDate time.Time `json:"modified_date"`
}

// Touch stamps a write. CreatedDate is only set once.
func (b *BaseTime) Touch(now time.Time) {
	if b.CreatedDate.IsZero() {
		b.CreatedDate = now
	}
	b.ModifiedDate = now
}
