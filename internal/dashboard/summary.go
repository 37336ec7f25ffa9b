// Package dashboard aggregates the record set into the summary payload
// consumed by the chart dashboards. Aggregation is store-independent:
// it runs over the full record list from any backend.
package dashboard

import (
	"context"
	"sort"

	"github.com/matthewbaird/roster/internal/expiry"
	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/store"
	"github.com/matthewbaird/roster/internal/types"
)

// atRiskLimit caps the at-risk employees table.
const atRiskLimit = 5

// Summarize loads every record and computes the dashboard payload.
func Summarize(ctx context.Context, st store.Store) (types.DashboardSummary, error) {
	recs, err := st.List(ctx, types.ListQuery{})
	if err != nil {
		return types.DashboardSummary{}, err
	}
	return Build(recs), nil
}

// Build computes the summary from an already-loaded record set.
func Build(recs []types.Record) types.DashboardSummary {
	summary := types.DashboardSummary{
		KPIs: types.KPIs{TotalHeadcount: len(recs)},
	}

	byStream := map[string]int{}
	byProject := map[string]int{}
	buckets := map[string]int{}
	pivot := map[string]*types.StreamCounts{}
	projects := map[string]struct{}{}
	var atRisk []types.AtRiskEmployee

	for _, rec := range recs {
		stream := rec.String(schema.FieldStream)
		project := rec.String(schema.FieldProject)
		days, hasDays := rec.Number(schema.FieldCountdown)
		alloc, _ := rec.Number(schema.FieldAllocation)

		if stream != "" {
			byStream[stream]++
		}
		if project != "" {
			byProject[project]++
			projects[project] = struct{}{}
		}
		if alloc < 100 {
			summary.KPIs.PartiallyAllocated++
		}
		if hasDays {
			if days <= 30 {
				summary.KPIs.AtRiskContracts++
				atRisk = append(atRisk, types.AtRiskEmployee{
					ID:       rec.ID(),
					Name:     FullName(rec),
					DaysLeft: int(days),
					Project:  project,
				})
			}
			if b := expiry.Bucket(int(days)); b != "" {
				buckets[b]++
			}
		}

		if project != "" {
			row, ok := pivot[project]
			if !ok {
				row = &types.StreamCounts{Project: project}
				pivot[project] = row
			}
			switch stream {
			case "Backend":
				row.Backend++
			case "Frontend":
				row.Frontend++
			case "QA":
				row.QA++
			}
		}
	}

	summary.KPIs.ActiveProjects = len(projects)
	summary.Charts.HeadcountByStream = toNameValues(byStream, false)
	summary.Charts.HeadcountPerProject = toNameValues(byProject, true)
	summary.Charts.ExpiringContractsBreakdown = bucketSeries(buckets)
	summary.Charts.ProjectStreamDistribution = pivotRows(pivot)
	summary.AtRiskEmployees = topAtRisk(atRisk)
	return summary
}

// FullName is the computed display name: first and last name joined,
// never stored on the record.
func FullName(rec types.Record) string {
	first := rec.String(schema.FieldFirstName)
	last := rec.String(schema.FieldLastName)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

func toNameValues(counts map[string]int, byValueDesc bool) []types.NameValue {
	out := make([]types.NameValue, 0, len(counts))
	for name, value := range counts {
		out = append(out, types.NameValue{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if byValueDesc && out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// bucketSeries renders the expiry buckets in their fixed order,
// dropping empty ones.
func bucketSeries(counts map[string]int) []types.NameValue {
	var out []types.NameValue
	for _, name := range []string{expiry.Bucket0to30, expiry.Bucket31to60, expiry.Bucket61to90} {
		if n := counts[name]; n > 0 {
			out = append(out, types.NameValue{Name: name, Value: n})
		}
	}
	return out
}

func pivotRows(pivot map[string]*types.StreamCounts) []types.StreamCounts {
	out := make([]types.StreamCounts, 0, len(pivot))
	for _, row := range pivot {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Project < out[j].Project })
	return out
}

func topAtRisk(atRisk []types.AtRiskEmployee) []types.AtRiskEmployee {
	sort.Slice(atRisk, func(i, j int) bool {
		if atRisk[i].DaysLeft != atRisk[j].DaysLeft {
			return atRisk[i].DaysLeft < atRisk[j].DaysLeft
		}
		return atRisk[i].Name < atRisk[j].Name
	})
	if len(atRisk) > atRiskLimit {
		atRisk = atRisk[:atRiskLimit]
	}
	return atRisk
}

// SkillDistribution tallies tech skills per stream, each stream's
// skills sorted by count descending then name.
func SkillDistribution(ctx context.Context, st store.Store) ([]types.StreamSkills, error) {
	recs, err := st.List(ctx, types.ListQuery{})
	if err != nil {
		return nil, err
	}
	return BuildSkills(recs), nil
}

// BuildSkills computes the per-stream skill breakdown from loaded
// records.
func BuildSkills(recs []types.Record) []types.StreamSkills {
	perStream := map[string]map[string]int{}
	for _, rec := range recs {
		stream := rec.String(schema.FieldStream)
		if stream == "" {
			continue
		}
		for _, skill := range rec.Strings(schema.FieldTechSkills) {
			if perStream[stream] == nil {
				perStream[stream] = map[string]int{}
			}
			perStream[stream][skill]++
		}
	}

	streams := make([]string, 0, len(perStream))
	for s := range perStream {
		streams = append(streams, s)
	}
	sort.Strings(streams)

	out := make([]types.StreamSkills, 0, len(streams))
	for _, stream := range streams {
		skills := make([]types.SkillCount, 0, len(perStream[stream]))
		for name, count := range perStream[stream] {
			skills = append(skills, types.SkillCount{Name: name, Count: count})
		}
		sort.Slice(skills, func(i, j int) bool {
			if skills[i].Count != skills[j].Count {
				return skills[i].Count > skills[j].Count
			}
			return skills[i].Name < skills[j].Name
		})
		out = append(out, types.StreamSkills{Stream: stream, Skills: skills})
	}
	return out
}
