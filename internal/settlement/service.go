package settlement

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/yudhap/patungan/internal/expr"
	"github.com/yudhap/patungan/internal/rounding"
	"github.com/yudhap/patungan/internal/settlement/split"
)

// Common errors
var (
	ErrNilSession         = errors.New("session is required")
	ErrNoMembers          = errors.New("session has no members")
	ErrMissingPercentages = errors.New("percentages are required")
)

// Service is the settlement calculation engine. It is stateless aside from
// configuration (rounding policy) injected at construction, so a single
// instance can serve back-to-back recompute-on-edit calls.
type Service struct {
	eval    *expr.Evaluator
	rounder rounding.Rounder
	tips    *split.Factory
	log     *slog.Logger
}

// NewService creates a new settlement service
func NewService(eval *expr.Evaluator, rounder rounding.Rounder, tips *split.Factory, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		eval:    eval,
		rounder: rounder,
		tips:    tips,
		log:     log,
	}
}

// EvaluateExpression evaluates arithmetic text and rounds the result with the
// configured policy. It never fails: malformed input yields 0.
func (s *Service) EvaluateExpression(text string) float64 {
	return s.rounder.Round(s.eval.EvaluateOrZero(text))
}

// Calculate computes the full equal-split settlement for a session. It never
// returns an error: an empty or nil session yields a zeroed result, and
// malformed price expressions are substituted with 0 and reported through
// Diagnostics.Warnings.
func (s *Service) Calculate(session *Session) *Result {
	result := &Result{
		Members: []MemberCalculation{},
		Summary: Summary{
			NeedsToPay: []MemberCalculation{},
			GetsRefund: []MemberCalculation{},
			Settled:    []MemberCalculation{},
		},
	}
	if session == nil || len(session.Members) == 0 {
		return result
	}

	members, warnings := s.evaluateMembers(session.Members)
	totals := s.computeTotals(members)

	for i := range members {
		members[i].AmountPerPerson = totals.CostPerPerson
		s.applyFinalAmount(&members[i], totals.CostPerPerson)
	}

	result.Members = members
	result.Totals = totals
	result.Summary = s.buildSummary(members)
	result.Diagnostics = s.validate(totals, result.Summary, warnings)
	return result
}

// CalculateCustomSplit allocates the session total by caller-supplied
// percentages instead of equal division. Percentages only affect allocation;
// totals are still computed from actual spending. The call fails when the
// session is absent or the percentages do not cover every member and sum to
// 100 within 0.01.
func (s *Service) CalculateCustomSplit(session *Session, percentages map[string]float64) (*Result, error) {
	if session == nil {
		return nil, ErrNilSession
	}
	if len(session.Members) == 0 {
		return nil, ErrNoMembers
	}
	if len(percentages) == 0 {
		return nil, ErrMissingPercentages
	}

	memberIDs := make([]string, len(session.Members))
	for i, m := range session.Members {
		memberIDs[i] = m.ID
	}
	if err := split.ValidatePercentages(memberIDs, percentages); err != nil {
		return nil, fmt.Errorf("invalid custom split: %w", err)
	}

	members, warnings := s.evaluateMembers(session.Members)
	totals := s.computeTotals(members)

	for i := range members {
		share := s.rounder.Round(totals.TotalCost * percentages[members[i].ID] / 100)
		members[i].AmountPerPerson = share
		s.applyFinalAmount(&members[i], share)
	}

	result := &Result{
		Members: members,
		Totals:  totals,
		Summary: s.buildSummary(members),
	}
	result.Diagnostics = s.validate(totals, result.Summary, warnings)
	return result, nil
}

// CalculateWithTip adds a tip to the bill and recomputes the settlement. The
// tip amount is expression text, distributed per the chosen mode as a
// synthesized line item on a cloned session; the caller's session is never
// mutated. A tip of zero or less behaves as a plain Calculate, as does
// proportional distribution when nobody has spent anything.
func (s *Service) CalculateWithTip(session *Session, tipAmount string, mode split.TipMode) (*Result, error) {
	if session == nil {
		return nil, ErrNilSession
	}
	if len(session.Members) == 0 {
		return nil, ErrNoMembers
	}

	tip := s.eval.EvaluateOrZero(tipAmount)
	if tip <= 0 {
		return s.Calculate(session), nil
	}

	strategy, err := s.tips.Create(mode)
	if err != nil {
		return nil, err
	}

	spent := make([]float64, len(session.Members))
	for i, m := range session.Members {
		var sum float64
		for _, item := range m.Items {
			sum += s.eval.EvaluateOrZero(item.Price)
		}
		spent[i] = sum
	}

	if mode == split.TipModeProportional {
		var totalSpent float64
		for _, v := range spent {
			totalSpent += v
		}
		if totalSpent == 0 {
			return s.Calculate(session), nil
		}
	}

	shares, err := strategy.Allocate(tip, spent)
	if err != nil {
		return nil, err
	}

	clone := session.Clone()
	for i := range clone.Members {
		if shares[i] == 0 {
			continue
		}
		clone.Members[i].Items = append(clone.Members[i].Items, Item{
			Name:  "Tip",
			Price: strconv.FormatFloat(shares[i], 'f', -1, 64),
		})
	}

	return s.Calculate(clone), nil
}

// SuggestTransfers produces a small set of settling payments by greedily
// matching the largest payers with the largest receivers. Sorting is stable,
// so members with equal amounts settle in insertion order. The greedy match
// does not guarantee the theoretical minimum number of transfers, but it is
// deterministic and terminates in at most payers+receivers-1 steps.
func (s *Service) SuggestTransfers(result *Result) []Transfer {
	transfers := []Transfer{}
	if result == nil {
		return transfers
	}

	payers := make([]MemberCalculation, len(result.Summary.NeedsToPay))
	copy(payers, result.Summary.NeedsToPay)
	receivers := make([]MemberCalculation, len(result.Summary.GetsRefund))
	copy(receivers, result.Summary.GetsRefund)

	sort.SliceStable(payers, func(i, j int) bool {
		return payers[i].FinalAmount > payers[j].FinalAmount
	})
	sort.SliceStable(receivers, func(i, j int) bool {
		return receivers[i].FinalAmount > receivers[j].FinalAmount
	})

	p, r := 0, 0
	for p < len(payers) && r < len(receivers) {
		amount := math.Min(payers[p].FinalAmount, receivers[r].FinalAmount)

		if amount > balanceEpsilon {
			transfers = append(transfers, Transfer{
				From:   payers[p].Name,
				To:     receivers[r].Name,
				Amount: s.rounder.Round(amount),
			})
		}

		payers[p].FinalAmount -= amount
		receivers[r].FinalAmount -= amount

		if payers[p].FinalAmount <= balanceEpsilon {
			p++
		}
		if receivers[r].FinalAmount <= balanceEpsilon {
			r++
		}
	}

	return transfers
}

// evaluateMembers prices every member's items and advance. Each derived
// MemberCalculation is a fresh value; nothing aliases the input Member apart
// from the shared read-only item slice contents.
func (s *Service) evaluateMembers(members []Member) ([]MemberCalculation, []string) {
	calcs := make([]MemberCalculation, len(members))
	var warnings []string

	for i, m := range members {
		var totalSpent float64
		for _, item := range m.Items {
			value, err := s.eval.Evaluate(item.Price)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("member %s item %q: %v", m.Name, item.Name, err))
				s.log.Warn("item price evaluation failed, using 0",
					"member", m.Name, "item", item.Name, "error", err)
				value = 0
			}
			totalSpent += value
		}

		advance, err := s.eval.Evaluate(m.Advance)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("member %s advance: %v", m.Name, err))
			s.log.Warn("advance evaluation failed, using 0", "member", m.Name, "error", err)
			advance = 0
		}

		items := make([]Item, len(m.Items))
		copy(items, m.Items)

		calcs[i] = MemberCalculation{
			ID:         m.ID,
			Name:       m.Name,
			Items:      items,
			Advance:    s.rounder.Round(advance),
			TotalSpent: s.rounder.Round(totalSpent),
			ItemCount:  len(m.Items),
		}
	}

	return calcs, warnings
}

// computeTotals aggregates session-level figures from the evaluated members.
func (s *Service) computeTotals(members []MemberCalculation) SessionTotals {
	totals := SessionTotals{MemberCount: len(members)}
	for _, m := range members {
		totals.TotalCost += m.TotalSpent
		totals.TotalAdvance += m.Advance
		totals.TotalItems += m.ItemCount
	}

	totals.TotalCost = s.rounder.Round(totals.TotalCost)
	totals.TotalAdvance = s.rounder.Round(totals.TotalAdvance)
	if totals.MemberCount > 0 {
		totals.CostPerPerson = s.rounder.Round(totals.TotalCost / float64(totals.MemberCount))
		totals.AverageSpent = totals.CostPerPerson
	}
	totals.RemainingBalance = s.rounder.Round(totals.TotalCost - totals.TotalAdvance)
	return totals
}

// applyFinalAmount derives the final amount and status from a member's
// allocated share. Amounts within the epsilon are treated as even; refunds
// are reported as positive amounts.
func (s *Service) applyFinalAmount(m *MemberCalculation, share float64) {
	final := s.rounder.Round(share - m.Advance)
	switch {
	case math.Abs(final) < balanceEpsilon:
		m.Status = StatusEven
		m.FinalAmount = 0
	case final > 0:
		m.Status = StatusNeedsToPay
		m.FinalAmount = final
	default:
		m.Status = StatusGetsRefund
		m.FinalAmount = math.Abs(final)
	}
}

// buildSummary partitions members by status and totals each side.
func (s *Service) buildSummary(members []MemberCalculation) Summary {
	summary := Summary{
		NeedsToPay: []MemberCalculation{},
		GetsRefund: []MemberCalculation{},
		Settled:    []MemberCalculation{},
	}

	for _, m := range members {
		switch m.Status {
		case StatusNeedsToPay:
			summary.NeedsToPay = append(summary.NeedsToPay, m)
			summary.TotalNeedToPay += m.FinalAmount
		case StatusGetsRefund:
			summary.GetsRefund = append(summary.GetsRefund, m)
			summary.TotalRefund += m.FinalAmount
		default:
			summary.Settled = append(summary.Settled, m)
		}
	}

	summary.TotalNeedToPay = s.rounder.Round(summary.TotalNeedToPay)
	summary.TotalRefund = s.rounder.Round(summary.TotalRefund)
	summary.BalanceCheck = s.rounder.Round(summary.TotalNeedToPay - summary.TotalRefund)
	return summary
}

// validate runs the advisory reconciliation pass: advances plus outstanding
// payments should come back to the total cost. The check legitimately
// diverges when members over-advanced (their surplus shows up as refunds
// instead), so a mismatch is reported, never fatal.
func (s *Service) validate(totals SessionTotals, summary Summary, warnings []string) Diagnostics {
	diag := Diagnostics{Warnings: warnings}

	delta := s.rounder.Round(totals.TotalAdvance + summary.TotalNeedToPay - totals.TotalCost)
	if math.Abs(delta) > balanceEpsilon {
		diag.BalanceMismatch = true
		diag.BalanceDelta = delta
		s.log.Warn("balance check mismatch",
			"total_advance", totals.TotalAdvance,
			"total_need_to_pay", summary.TotalNeedToPay,
			"total_cost", totals.TotalCost,
			"delta", delta)
	}

	return diag
}
