package entity

import "time"

// Good is a row in the `goods` table. Comment is nil when unset.
type Good struct {
	ID        int64
	Name      string
	Comment   *string
	Count     int
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy.
func (g *Good) Clone() *Good {
	c := *g
	if g.Comment != nil {
		s := *g.Comment
		c.Comment = &s
	}
	return &c
}
