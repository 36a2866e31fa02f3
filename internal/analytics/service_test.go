package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhap/patungan/internal/expr"
	"github.com/yudhap/patungan/internal/history"
	"github.com/yudhap/patungan/internal/rounding"
	"github.com/yudhap/patungan/internal/settlement"
)

func newTestService() *Service {
	return NewService(expr.NewEvaluator(nil), rounding.New(2, rounding.MethodRound), nil)
}

func sampleRecords() []*history.Record {
	return []*history.Record{
		{
			ID:        "s1",
			Location:  "Warung",
			StartDate: "2025-01-10",
			Members: []settlement.Member{
				{ID: "a", Name: "Alice", Items: []settlement.Item{
					{Name: "Nasi", Price: "20000"},
					{Name: "Es Teh", Price: "5000"},
				}, Advance: "10000"},
				{ID: "b", Name: "Bob", Items: []settlement.Item{
					{Name: "Nasi", Price: "2*10000"},
				}},
			},
			Totals: settlement.SessionTotals{TotalCost: 45000},
		},
		{
			ID:        "s2",
			Location:  "Warung",
			StartDate: "2025-01-20",
			Members: []settlement.Member{
				{ID: "a", Name: "alice", Items: []settlement.Item{
					{Name: "Nasi", Price: "15000"},
				}},
			},
			Totals: settlement.SessionTotals{TotalCost: 15000},
		},
		{
			ID:        "s3",
			Location:  "Kafe",
			StartDate: "2025-02-05",
			Members: []settlement.Member{
				{ID: "c", Name: "Carol", Items: []settlement.Item{
					{Name: "Kopi", Price: "30000"},
				}, Advance: "30000"},
			},
			Totals: settlement.SessionTotals{TotalCost: 30000},
		},
	}
}

func TestAggregateEmptyCollection(t *testing.T) {
	svc := newTestService()

	for _, records := range [][]*history.Record{nil, {}} {
		report := svc.Aggregate(records)
		assert.Zero(t, report.Overview.SessionCount)
		assert.Zero(t, report.Overview.TotalSpend)
		assert.Empty(t, report.Trends.Monthly)
		assert.Empty(t, report.Members)
		assert.Empty(t, report.Locations)
		assert.Empty(t, report.Items)
		assert.Empty(t, report.Costs)
	}
}

func TestAggregateOverview(t *testing.T) {
	report := newTestService().Aggregate(sampleRecords())
	overview := report.Overview

	assert.Equal(t, 3, overview.SessionCount)
	assert.InDelta(t, 90000, overview.TotalSpend, 0.01)
	assert.InDelta(t, 30000, overview.AveragePerSession, 0.01)
	assert.Equal(t, 3, overview.DistinctMembers, "member names dedupe case-insensitively")
	assert.Equal(t, map[string]int{"Warung": 2, "Kafe": 1}, overview.LocationVisits)
	assert.Equal(t, "2025-01-10", overview.FirstSession)
	assert.Equal(t, "2025-02-05", overview.LastSession)
}

func TestAggregateTrends(t *testing.T) {
	report := newTestService().Aggregate(sampleRecords())

	require.Len(t, report.Trends.Monthly, 2)
	assert.Equal(t, TrendPoint{Period: "2025-01", Sessions: 2, TotalCost: 60000}, report.Trends.Monthly[0])
	assert.Equal(t, TrendPoint{Period: "2025-02", Sessions: 1, TotalCost: 30000}, report.Trends.Monthly[1])

	assert.Len(t, report.Trends.Daily, 3)
	assert.Len(t, report.Trends.Weekly, 3)

	var weeklyCost float64
	for _, p := range report.Trends.Weekly {
		weeklyCost += p.TotalCost
	}
	assert.InDelta(t, 90000, weeklyCost, 0.01)
}

func TestAggregateTrendsSkipsUnparseableDates(t *testing.T) {
	records := []*history.Record{
		{ID: "bad", StartDate: "not-a-date", Totals: settlement.SessionTotals{TotalCost: 1000}},
		{ID: "good", StartDate: "2025-03-01", Totals: settlement.SessionTotals{TotalCost: 2000}},
	}

	report := newTestService().Aggregate(records)

	require.Len(t, report.Trends.Monthly, 1)
	assert.Equal(t, "2025-03", report.Trends.Monthly[0].Period)
	// The bad record still counts toward overview spend.
	assert.InDelta(t, 3000, report.Overview.TotalSpend, 0.01)
}

func TestAggregateMemberRollup(t *testing.T) {
	report := newTestService().Aggregate(sampleRecords())

	require.Len(t, report.Members, 3)

	alice := report.Members[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 2, alice.Sessions)
	assert.InDelta(t, 40000, alice.TotalSpent, 0.01)
	assert.InDelta(t, 10000, alice.TotalAdvance, 0.01)
	assert.InDelta(t, 20000, alice.AverageSpent, 0.01)

	assert.Equal(t, "Carol", report.Members[1].Name)
	assert.Equal(t, "Bob", report.Members[2].Name)
	assert.InDelta(t, 20000, report.Members[2].TotalSpent, 0.01)
}

func TestAggregateLocationRollup(t *testing.T) {
	report := newTestService().Aggregate(sampleRecords())

	require.Len(t, report.Locations, 2)
	assert.Equal(t, LocationStats{Location: "Warung", Visits: 2, TotalCost: 60000, AverageCost: 30000}, report.Locations[0])
	assert.Equal(t, LocationStats{Location: "Kafe", Visits: 1, TotalCost: 30000, AverageCost: 30000}, report.Locations[1])
}

func TestAggregateItemRollup(t *testing.T) {
	report := newTestService().Aggregate(sampleRecords())

	require.Len(t, report.Items, 3)

	nasi := report.Items[0]
	assert.Equal(t, "Nasi", nasi.Name)
	assert.Equal(t, 3, nasi.Occurrences)
	assert.InDelta(t, 55000, nasi.TotalSpent, 0.01)
	assert.InDelta(t, 18333.33, nasi.AveragePrice, 0.01)
	assert.InDelta(t, 15000, nasi.MinPrice, 0.01)
	assert.InDelta(t, 20000, nasi.MaxPrice, 0.01)
	assert.Equal(t, 2, nasi.Sessions, "distinct sessions the item appeared in")
}

func TestCostDistribution(t *testing.T) {
	svc := newTestService()

	t.Run("multiple distinct costs", func(t *testing.T) {
		buckets := svc.Aggregate(sampleRecords()).Costs

		require.Len(t, buckets, 10)
		assert.Equal(t, 1, buckets[0].Count, "15000 lands in the first bucket")
		assert.Equal(t, 1, buckets[5].Count, "30000 lands in the sixth bucket")
		assert.Equal(t, 1, buckets[9].Count, "45000 clamps into the last bucket")
		assert.InDelta(t, 33.33, buckets[0].Percentage, 0.01)

		var counted int
		for _, b := range buckets {
			counted += b.Count
		}
		assert.Equal(t, 3, counted)
	})

	t.Run("single distinct cost", func(t *testing.T) {
		records := []*history.Record{
			{ID: "x", StartDate: "2025-01-01", Totals: settlement.SessionTotals{TotalCost: 25000}},
			{ID: "y", StartDate: "2025-01-02", Totals: settlement.SessionTotals{TotalCost: 25000}},
		}

		buckets := svc.Aggregate(records).Costs

		require.Len(t, buckets, 1)
		assert.Equal(t, 2, buckets[0].Count)
		assert.InDelta(t, 100, buckets[0].Percentage, 0.01)
	})

	t.Run("only zero costs", func(t *testing.T) {
		records := []*history.Record{
			{ID: "z", StartDate: "2025-01-01", Totals: settlement.SessionTotals{TotalCost: 0}},
		}

		assert.Empty(t, svc.Aggregate(records).Costs)
	})
}
