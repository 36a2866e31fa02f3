package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhap/patungan/internal/expr"
	"github.com/yudhap/patungan/internal/rounding"
	"github.com/yudhap/patungan/internal/settlement"
	"github.com/yudhap/patungan/internal/settlement/split"
)

func calculated(t *testing.T) (*settlement.Session, *settlement.Result, []settlement.Transfer) {
	t.Helper()

	session := &settlement.Session{
		Location:  "Warung Sate",
		StartDate: "2025-01-10",
		Currency:  "IDR",
		Members: []settlement.Member{
			{ID: "alice", Name: "Alice", Items: []settlement.Item{{Name: "Sate", Price: "2*25000"}}, Advance: "0"},
			{ID: "bob", Name: "Bob", Advance: "60000"},
		},
	}

	calc := settlement.NewService(
		expr.NewEvaluator(nil),
		rounding.New(2, rounding.MethodRound),
		split.NewTipStrategyFactory(),
		nil,
	)
	result := calc.Calculate(session)
	return session, result, calc.SuggestTransfers(result)
}

func TestText(t *testing.T) {
	session, result, transfers := calculated(t)

	text := NewService().Text(session, result, transfers)

	assert.Contains(t, text, "Warung Sate")
	assert.Contains(t, text, "Total cost: Rp50,000")
	assert.Contains(t, text, "Per person: Rp25,000")
	assert.Contains(t, text, "Alice — spent Rp50,000, advance Rp0: pays Rp25,000")
	assert.Contains(t, text, "Bob — spent Rp0, advance Rp60,000: gets back Rp35,000")
	assert.Contains(t, text, "Alice pays Rp25,000 to Bob")
}

func TestWriteCSV(t *testing.T) {
	_, result, _ := calculated(t)

	var buf bytes.Buffer
	require.NoError(t, NewService().WriteCSV(&buf, result))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	// Header, one row per member, totals row.
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"name", "total_spent", "item_count", "advance", "amount_per_person", "final_amount", "status"}, rows[0])

	assert.Equal(t, "Alice", rows[1][0])
	assert.Equal(t, "50000", rows[1][1])
	assert.Equal(t, "needs_to_pay", rows[1][6])

	assert.Equal(t, "Bob", rows[2][0])
	assert.Equal(t, "gets_refund", rows[2][6])

	assert.Equal(t, "TOTAL", rows[3][0])
	assert.Equal(t, "50000", rows[3][1])
}
