package settlement

// MemberStatus represents a member's net position after comparing their owed
// share to the advance they paid.
type MemberStatus string

const (
	StatusNeedsToPay MemberStatus = "needs_to_pay"
	StatusGetsRefund MemberStatus = "gets_refund"
	StatusEven       MemberStatus = "even"
)

// balanceEpsilon is the tolerance below which amounts are treated as settled.
// Rounding at multiple stages (per-item, per-member, per-total) can accumulate
// sub-cent drift.
const balanceEpsilon = 0.01

// Item is a single purchase by a member. Price is stored as raw expression
// text (e.g. "2*25000") and only evaluated at calculation time, so edits
// re-evaluate deterministically instead of reading a stale pre-computed float.
type Item struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Member is a session participant with their purchased items and advance
// payment. ID is unique within a session; duplicate names are a UI concern.
type Member struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Items    []Item  `json:"items"`
	Advance  string  `json:"advance"`
	BankInfo *string `json:"bank_info,omitempty"`
}

// Session is one bill-splitting event. The engine receives it by reference
// for a single computation and never mutates or persists it.
type Session struct {
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"` // YYYY-MM-DD
	EndDate   string   `json:"end_date"`
	Currency  string   `json:"currency"`
	Members   []Member `json:"members"`
}

// Clone returns a deep copy of the session. Tip distribution appends
// synthesized items to the copy so the caller's session stays untouched.
func (s *Session) Clone() *Session {
	clone := &Session{
		Location:  s.Location,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Currency:  s.Currency,
		Members:   make([]Member, len(s.Members)),
	}
	for i, m := range s.Members {
		cm := m
		cm.Items = make([]Item, len(m.Items))
		copy(cm.Items, m.Items)
		clone.Members[i] = cm
	}
	return clone
}

// MemberCalculation is the derived per-member result. It is recomputed on
// every calculation call and never persisted standalone.
type MemberCalculation struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Items           []Item       `json:"items"`
	Advance         float64      `json:"advance"`
	TotalSpent      float64      `json:"total_spent"`
	ItemCount       int          `json:"item_count"`
	AmountPerPerson float64      `json:"amount_per_person"`
	FinalAmount     float64      `json:"final_amount"`
	Status          MemberStatus `json:"status"`
}

// SessionTotals aggregates the whole session. RemainingBalance is a
// session-level balance check (totalCost - totalAdvance), independent of how
// costs are split.
type SessionTotals struct {
	TotalCost        float64 `json:"total_cost"`
	TotalAdvance     float64 `json:"total_advance"`
	MemberCount      int     `json:"member_count"`
	TotalItems       int     `json:"total_items"`
	AverageSpent     float64 `json:"average_spent"`
	CostPerPerson    float64 `json:"cost_per_person"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// Summary partitions members by status and totals each side. BalanceCheck
// should be near zero when advances fully reconcile against cost, but is not
// guaranteed zero.
type Summary struct {
	NeedsToPay     []MemberCalculation `json:"needs_to_pay"`
	GetsRefund     []MemberCalculation `json:"gets_refund"`
	Settled        []MemberCalculation `json:"settled"`
	TotalNeedToPay float64             `json:"total_need_to_pay"`
	TotalRefund    float64             `json:"total_refund"`
	BalanceCheck   float64             `json:"balance_check"`
}

// Diagnostics surfaces advisory anomalies as queryable data instead of only a
// log line. A balance mismatch is a reconciliation discrepancy signal, not an
// invariant violation.
type Diagnostics struct {
	BalanceMismatch bool     `json:"balance_mismatch"`
	BalanceDelta    float64  `json:"balance_delta"`
	Warnings        []string `json:"warnings,omitempty"`
}

// Result is the complete settlement output for one session.
type Result struct {
	Members     []MemberCalculation `json:"member_calculations"`
	Totals      SessionTotals       `json:"totals"`
	Summary     Summary             `json:"summary"`
	Diagnostics Diagnostics         `json:"diagnostics"`
}

// Transfer is a suggested settling payment between two members.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}
