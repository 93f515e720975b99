package branches

import "time"

// Branch represents a retail branch receiving outbound transfers.
type Branch struct {
	ID         int64     `json:"id"`
	BranchCode string    `json:"branch_code"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
