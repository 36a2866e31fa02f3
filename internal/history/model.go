package history

import (
	"time"

	"github.com/yudhap/patungan/internal/settlement"
)

// Record is a saved session together with the totals snapshot computed at
// save time. The raw member and item data is kept so analytics can re-price
// expressions deterministically.
type Record struct {
	ID        string                   `json:"id"`
	Location  string                   `json:"location"`
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Currency  string                   `json:"currency"`
	Members   []settlement.Member      `json:"members"`
	Totals    settlement.SessionTotals `json:"totals"`
	CreatedAt time.Time                `json:"created_at"`
}

// Session reconstructs the calculation input from a saved record.
func (r *Record) Session() *settlement.Session {
	return &settlement.Session{
		Location:  r.Location,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Currency:  r.Currency,
		Members:   r.Members,
	}
}
