package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhap/patungan/internal/expr"
	"github.com/yudhap/patungan/internal/rounding"
	"github.com/yudhap/patungan/internal/settlement/split"
)

func newTestService() *Service {
	return NewService(
		expr.NewEvaluator(nil),
		rounding.New(2, rounding.MethodRound),
		split.NewTipStrategyFactory(),
		nil,
	)
}

func twoMemberSession() *Session {
	return &Session{
		Location: "Warung Sate",
		Currency: "IDR",
		Members: []Member{
			{
				ID:      "alice",
				Name:    "Alice",
				Items:   []Item{{Name: "Sate", Price: "2*25000"}},
				Advance: "0",
			},
			{
				ID:      "bob",
				Name:    "Bob",
				Items:   []Item{},
				Advance: "60000",
			},
		},
	}
}

func TestCalculateEqualSplit(t *testing.T) {
	svc := newTestService()
	result := svc.Calculate(twoMemberSession())

	assert.InDelta(t, 50000, result.Totals.TotalCost, 0.01)
	assert.InDelta(t, 60000, result.Totals.TotalAdvance, 0.01)
	assert.InDelta(t, 25000, result.Totals.CostPerPerson, 0.01)
	assert.InDelta(t, -10000, result.Totals.RemainingBalance, 0.01)
	assert.Equal(t, 2, result.Totals.MemberCount)
	assert.Equal(t, 1, result.Totals.TotalItems)

	require.Len(t, result.Members, 2)

	alice := result.Members[0]
	assert.InDelta(t, 50000, alice.TotalSpent, 0.01)
	assert.Equal(t, StatusNeedsToPay, alice.Status)
	assert.InDelta(t, 25000, alice.FinalAmount, 0.01)

	bob := result.Members[1]
	assert.Zero(t, bob.TotalSpent)
	assert.Equal(t, StatusGetsRefund, bob.Status)
	assert.InDelta(t, 35000, bob.FinalAmount, 0.01)

	assert.InDelta(t, 25000, result.Summary.TotalNeedToPay, 0.01)
	assert.InDelta(t, 35000, result.Summary.TotalRefund, 0.01)
	assert.InDelta(t, -10000, result.Summary.BalanceCheck, 0.01)
	require.Len(t, result.Summary.NeedsToPay, 1)
	require.Len(t, result.Summary.GetsRefund, 1)
}

func TestCalculateTotalSpentMatchesTotalCost(t *testing.T) {
	svc := newTestService()
	session := &Session{
		Members: []Member{
			{ID: "a", Name: "A", Items: []Item{{Name: "x", Price: "12000.55"}, {Name: "y", Price: "3*4500"}}, Advance: "10000"},
			{ID: "b", Name: "B", Items: []Item{{Name: "z", Price: "(2+3)*1000"}}, Advance: ""},
			{ID: "c", Name: "C", Items: nil, Advance: "7500"},
		},
	}

	result := svc.Calculate(session)

	var sum float64
	for _, m := range result.Members {
		sum += m.TotalSpent
	}
	assert.InDelta(t, result.Totals.TotalCost, sum, 0.01)
}

func TestCalculateEmptySession(t *testing.T) {
	svc := newTestService()

	for _, session := range []*Session{nil, {Members: []Member{}}} {
		result := svc.Calculate(session)
		assert.Empty(t, result.Members)
		assert.Zero(t, result.Totals.TotalCost)
		assert.Zero(t, result.Totals.CostPerPerson)
		assert.Zero(t, result.Totals.MemberCount)
		assert.Empty(t, result.Summary.NeedsToPay)
		assert.Empty(t, result.Summary.GetsRefund)
		assert.Empty(t, result.Summary.Settled)
	}
}

func TestCalculateEvenStatus(t *testing.T) {
	svc := newTestService()
	session := &Session{
		Members: []Member{
			{ID: "a", Name: "A", Items: []Item{{Name: "x", Price: "25000"}}, Advance: "25000"},
			{ID: "b", Name: "B", Items: []Item{{Name: "y", Price: "25000"}}, Advance: "25000"},
		},
	}

	result := svc.Calculate(session)

	for _, m := range result.Members {
		assert.Equal(t, StatusEven, m.Status)
		assert.Zero(t, m.FinalAmount)
	}
	require.Len(t, result.Summary.Settled, 2)
	assert.False(t, result.Diagnostics.BalanceMismatch)
}

func TestCalculateMalformedPriceBecomesZeroWithWarning(t *testing.T) {
	svc := newTestService()
	session := &Session{
		Members: []Member{
			{ID: "a", Name: "A", Items: []Item{{Name: "good", Price: "10000"}, {Name: "bad", Price: "2+*3"}}, Advance: "1/0"},
		},
	}

	result := svc.Calculate(session)

	require.Len(t, result.Members, 1)
	assert.InDelta(t, 10000, result.Members[0].TotalSpent, 0.01)
	assert.Zero(t, result.Members[0].Advance)
	assert.Len(t, result.Diagnostics.Warnings, 2)
}

func TestCalculateBalanceMismatchDiagnostic(t *testing.T) {
	svc := newTestService()
	result := svc.Calculate(twoMemberSession())

	// Bob over-advanced, so advances plus outstanding payments exceed cost.
	assert.True(t, result.Diagnostics.BalanceMismatch)
	assert.InDelta(t, 35000, result.Diagnostics.BalanceDelta, 0.01)
}

func TestCalculateCustomSplit(t *testing.T) {
	svc := newTestService()
	session := &Session{
		Members: []Member{
			{ID: "a", Name: "A", Items: []Item{{Name: "x", Price: "60000"}}, Advance: "0"},
			{ID: "b", Name: "B", Items: []Item{{Name: "y", Price: "40000"}}, Advance: "0"},
		},
	}

	result, err := svc.CalculateCustomSplit(session, map[string]float64{"a": 60, "b": 40})
	require.NoError(t, err)

	assert.InDelta(t, 100000, result.Totals.TotalCost, 0.01)

	var allocated float64
	for _, m := range result.Members {
		allocated += m.AmountPerPerson
	}
	assert.InDelta(t, result.Totals.TotalCost, allocated, 0.01)

	assert.InDelta(t, 60000, result.Members[0].AmountPerPerson, 0.01)
	assert.Equal(t, StatusNeedsToPay, result.Members[0].Status)
	assert.InDelta(t, 40000, result.Members[1].AmountPerPerson, 0.01)
}

func TestCalculateCustomSplitPreconditions(t *testing.T) {
	svc := newTestService()
	session := &Session{
		Members: []Member{
			{ID: "a", Name: "A", Items: []Item{{Name: "x", Price: "1000"}}},
			{ID: "b", Name: "B"},
		},
	}

	tests := []struct {
		name        string
		session     *Session
		percentages map[string]float64
		wantErr     error
	}{
		{"nil session", nil, map[string]float64{"a": 100}, ErrNilSession},
		{"empty members", &Session{}, map[string]float64{"a": 100}, ErrNoMembers},
		{"nil percentages", session, nil, ErrMissingPercentages},
		{"sum above 100", session, map[string]float64{"a": 60, "b": 41}, split.ErrInvalidPercentages},
		{"sum below 100", session, map[string]float64{"a": 60, "b": 39}, split.ErrInvalidPercentages},
		{"member not covered", session, map[string]float64{"a": 100}, split.ErrMissingPercentage},
		{"percentage out of range", session, map[string]float64{"a": 150, "b": -50}, split.ErrPercentageOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.CalculateCustomSplit(tt.session, tt.percentages)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculateWithTipEqual(t *testing.T) {
	svc := newTestService()
	session := &Session{
		Members: []Member{
			{ID: "a", Name: "A", Items: []Item{{Name: "x", Price: "30000"}}, Advance: "0"},
			{ID: "b", Name: "B", Items: []Item{{Name: "y", Price: "10000"}}, Advance: "0"},
		},
	}

	result, err := svc.CalculateWithTip(session, "10000", split.TipModeEqual)
	require.NoError(t, err)

	assert.InDelta(t, 50000, result.Totals.TotalCost, 0.01)
	assert.InDelta(t, 35000, result.Members[0].TotalSpent, 0.01)
	assert.InDelta(t, 15000, result.Members[1].TotalSpent, 0.01)

	// The caller's session must stay untouched.
	assert.Len(t, session.Members[0].Items, 1)
	assert.Len(t, session.Members[1].Items, 1)
}

func TestCalculateWithTipProportional(t *testing.T) {
	svc := newTestService()
	session := &Session{
		Members: []Member{
			{ID: "a", Name: "A", Items: []Item{{Name: "x", Price: "30000"}}, Advance: "0"},
			{ID: "b", Name: "B", Items: []Item{{Name: "y", Price: "10000"}}, Advance: "0"},
		},
	}

	result, err := svc.CalculateWithTip(session, "10000", split.TipModeProportional)
	require.NoError(t, err)

	assert.InDelta(t, 37500, result.Members[0].TotalSpent, 0.01)
	assert.InDelta(t, 12500, result.Members[1].TotalSpent, 0.01)
	assert.InDelta(t, 50000, result.Totals.TotalCost, 0.01)
}

func TestCalculateWithTipNoOpCases(t *testing.T) {
	svc := newTestService()

	t.Run("zero tip", func(t *testing.T) {
		session := twoMemberSession()
		result, err := svc.CalculateWithTip(session, "0", split.TipModeEqual)
		require.NoError(t, err)
		assert.InDelta(t, 50000, result.Totals.TotalCost, 0.01)
	})

	t.Run("malformed tip treated as zero", func(t *testing.T) {
		session := twoMemberSession()
		result, err := svc.CalculateWithTip(session, "2+*3", split.TipModeEqual)
		require.NoError(t, err)
		assert.InDelta(t, 50000, result.Totals.TotalCost, 0.01)
	})

	t.Run("proportional with no spending", func(t *testing.T) {
		session := &Session{Members: []Member{
			{ID: "a", Name: "A", Advance: "5000"},
			{ID: "b", Name: "B"},
		}}
		result, err := svc.CalculateWithTip(session, "10000", split.TipModeProportional)
		require.NoError(t, err)
		assert.Zero(t, result.Totals.TotalCost)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := svc.CalculateWithTip(twoMemberSession(), "10000", split.TipMode("half"))
		assert.ErrorIs(t, err, split.ErrUnknownTipMode)
	})

	t.Run("empty session", func(t *testing.T) {
		_, err := svc.CalculateWithTip(&Session{}, "10000", split.TipModeEqual)
		assert.ErrorIs(t, err, ErrNoMembers)
	})
}

func TestSuggestTransfersScenarioA(t *testing.T) {
	svc := newTestService()
	result := svc.Calculate(twoMemberSession())

	transfers := svc.SuggestTransfers(result)

	require.Len(t, transfers, 1)
	assert.Equal(t, "Alice", transfers[0].From)
	assert.Equal(t, "Bob", transfers[0].To)
	assert.InDelta(t, 25000, transfers[0].Amount, 0.01)
}

func TestSuggestTransfersGreedyMatching(t *testing.T) {
	svc := newTestService()
	result := &Result{
		Summary: Summary{
			NeedsToPay: []MemberCalculation{
				{Name: "X", FinalAmount: 50, Status: StatusNeedsToPay},
				{Name: "Y", FinalAmount: 30, Status: StatusNeedsToPay},
			},
			GetsRefund: []MemberCalculation{
				{Name: "P", FinalAmount: 60, Status: StatusGetsRefund},
				{Name: "Q", FinalAmount: 20, Status: StatusGetsRefund},
			},
		},
	}

	transfers := svc.SuggestTransfers(result)

	require.Len(t, transfers, 3)
	assert.Equal(t, Transfer{From: "X", To: "P", Amount: 50}, transfers[0])
	assert.Equal(t, Transfer{From: "Y", To: "P", Amount: 10}, transfers[1])
	assert.Equal(t, Transfer{From: "Y", To: "Q", Amount: 20}, transfers[2])

	var total float64
	for _, tr := range transfers {
		total += tr.Amount
	}
	assert.InDelta(t, 80, total, 0.01)
}

func TestSuggestTransfersStableTieBreak(t *testing.T) {
	svc := newTestService()
	result := &Result{
		Summary: Summary{
			NeedsToPay: []MemberCalculation{
				{Name: "First", FinalAmount: 40, Status: StatusNeedsToPay},
				{Name: "Second", FinalAmount: 40, Status: StatusNeedsToPay},
			},
			GetsRefund: []MemberCalculation{
				{Name: "R", FinalAmount: 80, Status: StatusGetsRefund},
			},
		},
	}

	transfers := svc.SuggestTransfers(result)

	require.Len(t, transfers, 2)
	assert.Equal(t, "First", transfers[0].From)
	assert.Equal(t, "Second", transfers[1].From)
}

func TestSuggestTransfersEmptyResult(t *testing.T) {
	svc := newTestService()

	assert.Empty(t, svc.SuggestTransfers(nil))
	assert.Empty(t, svc.SuggestTransfers(&Result{}))
}

func TestEvaluateExpression(t *testing.T) {
	svc := newTestService()

	assert.InDelta(t, 50000, svc.EvaluateExpression("2*25000"), 0.01)
	assert.InDelta(t, 3.33, svc.EvaluateExpression("10/3"), 0.01)
	assert.Zero(t, svc.EvaluateExpression("1/0"))
	assert.Zero(t, svc.EvaluateExpression("(2+3"))
}
