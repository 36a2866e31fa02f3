package settlement

// CalculateRequest carries a session for an equal-split calculation
type CalculateRequest struct {
	Session *Session `json:"session" validate:"required"`
}

// CustomSplitRequest allocates the total by member percentages
type CustomSplitRequest struct {
	Session     *Session           `json:"session" validate:"required"`
	Percentages map[string]float64 `json:"percentages" validate:"required,min=1"`
}

// TipRequest adds a tip to the bill before calculating
type TipRequest struct {
	Session   *Session `json:"session" validate:"required"`
	TipAmount string   `json:"tip_amount"`
	Mode      string   `json:"mode" validate:"required,oneof=equal proportional"`
}

// EvaluateRequest evaluates arithmetic expression text
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the evaluated and rounded value
type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Value      float64 `json:"value"`
}

// TransfersResponse lists the suggested settling payments
type TransfersResponse struct {
	Transfers []Transfer `json:"transfers"`
}
