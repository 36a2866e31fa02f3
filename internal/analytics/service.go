package analytics

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yudhap/patungan/internal/expr"
	"github.com/yudhap/patungan/internal/history"
	"github.com/yudhap/patungan/internal/rounding"
)

const dateLayout = "2006-01-02"

// maxCostBuckets caps the cost histogram width.
const maxCostBuckets = 10

// Service aggregates saved sessions into analytics reports. Aggregation is a
// single linear pass per collection, fully recomputed on every request.
type Service struct {
	eval    *expr.Evaluator
	rounder rounding.Rounder
	log     *slog.Logger
}

// NewService creates a new analytics service
func NewService(eval *expr.Evaluator, rounder rounding.Rounder, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{eval: eval, rounder: rounder, log: log}
}

// Aggregate computes the full analytics report over the given sessions. An
// empty collection is a valid case and yields zeroed aggregates, never an
// error.
func (s *Service) Aggregate(records []*history.Record) *Report {
	report := &Report{
		Overview: Overview{LocationVisits: map[string]int{}},
		Trends: Trends{
			Daily:   []TrendPoint{},
			Weekly:  []TrendPoint{},
			Monthly: []TrendPoint{},
		},
		Members:   []MemberStats{},
		Locations: []LocationStats{},
		Items:     []ItemStats{},
		Costs:     []CostBucket{},
	}
	if len(records) == 0 {
		return report
	}

	s.aggregateOverview(records, report)
	s.aggregateTrends(records, report)
	s.aggregateMembers(records, report)
	s.aggregateLocations(records, report)
	s.aggregateItems(records, report)
	report.Costs = s.costDistribution(records)

	return report
}

func (s *Service) aggregateOverview(records []*history.Record, report *Report) {
	overview := &report.Overview
	overview.SessionCount = len(records)

	memberNames := map[string]bool{}
	var first, last time.Time

	for _, rec := range records {
		overview.TotalSpend += rec.Totals.TotalCost

		for _, m := range rec.Members {
			memberNames[strings.ToLower(m.Name)] = true
		}

		if rec.Location != "" {
			overview.LocationVisits[rec.Location]++
		}

		date, ok := parseDate(rec.StartDate)
		if !ok {
			continue
		}
		if first.IsZero() || date.Before(first) {
			first = date
		}
		if last.IsZero() || date.After(last) {
			last = date
		}
	}

	overview.TotalSpend = s.rounder.Round(overview.TotalSpend)
	overview.AveragePerSession = s.rounder.Round(overview.TotalSpend / float64(len(records)))
	overview.DistinctMembers = len(memberNames)
	if !first.IsZero() {
		overview.FirstSession = first.Format(dateLayout)
		overview.LastSession = last.Format(dateLayout)
	}
}

func (s *Service) aggregateTrends(records []*history.Record, report *Report) {
	daily := map[string]*TrendPoint{}
	weekly := map[string]*TrendPoint{}
	monthly := map[string]*TrendPoint{}

	for _, rec := range records {
		date, ok := parseDate(rec.StartDate)
		if !ok {
			s.log.Warn("session skipped in trends, unparseable date",
				"session", rec.ID, "start_date", rec.StartDate)
			continue
		}

		year, week := date.ISOWeek()
		accumulate(daily, date.Format(dateLayout), rec.Totals.TotalCost)
		accumulate(weekly, fmt.Sprintf("%d-W%02d", year, week), rec.Totals.TotalCost)
		accumulate(monthly, date.Format("2006-01"), rec.Totals.TotalCost)
	}

	report.Trends.Daily = s.sortedTrend(daily)
	report.Trends.Weekly = s.sortedTrend(weekly)
	report.Trends.Monthly = s.sortedTrend(monthly)
}

func accumulate(buckets map[string]*TrendPoint, key string, cost float64) {
	point, ok := buckets[key]
	if !ok {
		point = &TrendPoint{Period: key}
		buckets[key] = point
	}
	point.Sessions++
	point.TotalCost += cost
}

func (s *Service) sortedTrend(buckets map[string]*TrendPoint) []TrendPoint {
	points := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		p.TotalCost = s.rounder.Round(p.TotalCost)
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}

func (s *Service) aggregateMembers(records []*history.Record, report *Report) {
	stats := map[string]*MemberStats{}

	for _, rec := range records {
		for _, m := range rec.Members {
			key := strings.ToLower(m.Name)
			entry, ok := stats[key]
			if !ok {
				entry = &MemberStats{Name: m.Name}
				stats[key] = entry
			}

			entry.Sessions++
			for _, item := range m.Items {
				entry.TotalSpent += s.eval.EvaluateOrZero(item.Price)
			}
			entry.TotalAdvance += s.eval.EvaluateOrZero(m.Advance)
		}
	}

	report.Members = make([]MemberStats, 0, len(stats))
	for _, entry := range stats {
		entry.TotalSpent = s.rounder.Round(entry.TotalSpent)
		entry.TotalAdvance = s.rounder.Round(entry.TotalAdvance)
		entry.AverageSpent = s.rounder.Round(entry.TotalSpent / float64(entry.Sessions))
		report.Members = append(report.Members, *entry)
	}
	sortByTotal(report.Members, func(m MemberStats) (float64, string) { return m.TotalSpent, m.Name })
}

func (s *Service) aggregateLocations(records []*history.Record, report *Report) {
	stats := map[string]*LocationStats{}

	for _, rec := range records {
		if rec.Location == "" {
			continue
		}
		entry, ok := stats[rec.Location]
		if !ok {
			entry = &LocationStats{Location: rec.Location}
			stats[rec.Location] = entry
		}
		entry.Visits++
		entry.TotalCost += rec.Totals.TotalCost
	}

	report.Locations = make([]LocationStats, 0, len(stats))
	for _, entry := range stats {
		entry.TotalCost = s.rounder.Round(entry.TotalCost)
		entry.AverageCost = s.rounder.Round(entry.TotalCost / float64(entry.Visits))
		report.Locations = append(report.Locations, *entry)
	}
	sortByTotal(report.Locations, func(l LocationStats) (float64, string) { return l.TotalCost, l.Location })
}

func (s *Service) aggregateItems(records []*history.Record, report *Report) {
	stats := map[string]*ItemStats{}
	seenIn := map[string]map[string]bool{}

	for _, rec := range records {
		for _, m := range rec.Members {
			for _, item := range m.Items {
				key := strings.ToLower(item.Name)
				entry, ok := stats[key]
				if !ok {
					entry = &ItemStats{Name: item.Name}
					stats[key] = entry
					seenIn[key] = map[string]bool{}
				}

				price := s.eval.EvaluateOrZero(item.Price)
				entry.Occurrences++
				entry.TotalSpent += price
				if entry.Occurrences == 1 || price < entry.MinPrice {
					entry.MinPrice = price
				}
				if price > entry.MaxPrice {
					entry.MaxPrice = price
				}
				seenIn[key][rec.ID] = true
			}
		}
	}

	report.Items = make([]ItemStats, 0, len(stats))
	for key, entry := range stats {
		entry.TotalSpent = s.rounder.Round(entry.TotalSpent)
		entry.AveragePrice = s.rounder.Round(entry.TotalSpent / float64(entry.Occurrences))
		entry.MinPrice = s.rounder.Round(entry.MinPrice)
		entry.MaxPrice = s.rounder.Round(entry.MaxPrice)
		entry.Sessions = len(seenIn[key])
		report.Items = append(report.Items, *entry)
	}
	sortByTotal(report.Items, func(i ItemStats) (float64, string) { return i.TotalSpent, i.Name })
}

// costDistribution builds an equal-width histogram over all positive session
// costs. Zero positive costs yields an empty distribution; a single distinct
// cost yields one bucket covering it.
func (s *Service) costDistribution(records []*history.Record) []CostBucket {
	costs := []float64{}
	for _, rec := range records {
		if rec.Totals.TotalCost > 0 {
			costs = append(costs, rec.Totals.TotalCost)
		}
	}
	if len(costs) == 0 {
		return []CostBucket{}
	}

	sort.Float64s(costs)
	min, max := costs[0], costs[len(costs)-1]

	if min == max {
		return []CostBucket{{
			Min:        s.rounder.Round(min),
			Max:        s.rounder.Round(max),
			Count:      len(costs),
			Percentage: 100,
		}}
	}

	width := (max - min) / maxCostBuckets
	buckets := make([]CostBucket, maxCostBuckets)
	for i := range buckets {
		buckets[i].Min = s.rounder.Round(min + float64(i)*width)
		buckets[i].Max = s.rounder.Round(min + float64(i+1)*width)
	}

	for _, cost := range costs {
		idx := int((cost - min) / width)
		if idx >= maxCostBuckets {
			idx = maxCostBuckets - 1
		}
		buckets[idx].Count++
	}

	for i := range buckets {
		buckets[i].Percentage = s.rounder.Round(float64(buckets[i].Count) / float64(len(costs)) * 100)
	}

	return buckets
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// sortByTotal orders rollups by descending total, name ascending on ties so
// output is deterministic.
func sortByTotal[T any](entries []T, key func(T) (float64, string)) {
	sort.Slice(entries, func(i, j int) bool {
		ti, ni := key(entries[i])
		tj, nj := key(entries[j])
		if ti != tj {
			return ti > tj
		}
		return ni < nj
	})
}
