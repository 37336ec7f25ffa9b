package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/roster/internal/expiry"
	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/types"
)

func rec(first, last, project, stream string, alloc float64, countdown any, skills ...string) types.Record {
	r := types.Record{
		schema.FieldFirstName:  first,
		schema.FieldLastName:   last,
		schema.FieldProject:    project,
		schema.FieldStream:     stream,
		schema.FieldAllocation: alloc,
	}
	if countdown != nil {
		r[schema.FieldCountdown] = countdown
	}
	if len(skills) > 0 {
		r[schema.FieldTechSkills] = skills
	}
	return r
}

func TestBuildKPIs(t *testing.T) {
	got := Build([]types.Record{
		rec("Alice", "Adams", "Apollo", "Backend", 100, float64(10)),
		rec("Bob", "Brown", "Apollo", "Frontend", 40, float64(45)),
		rec("Cara", "Chen", "Borealis", "QA", 0, nil),
		rec("Dan", "Diaz", "", "Backend", 100, float64(30)),
	})

	assert.Equal(t, 4, got.KPIs.TotalHeadcount)
	// Countdown <= 30 counts as at risk.
	assert.Equal(t, 2, got.KPIs.AtRiskContracts)
	// Anything under 100% counts as partially allocated.
	assert.Equal(t, 2, got.KPIs.PartiallyAllocated)
	// Distinct non-empty projects.
	assert.Equal(t, 2, got.KPIs.ActiveProjects)
}

func TestBuildCharts(t *testing.T) {
	got := Build([]types.Record{
		rec("A", "A", "Apollo", "Backend", 100, float64(10)),
		rec("B", "B", "Apollo", "Backend", 100, float64(40)),
		rec("C", "C", "Apollo", "Frontend", 100, float64(70)),
		rec("D", "D", "Borealis", "QA", 100, float64(120)),
	})

	assert.Equal(t, []types.NameValue{
		{Name: "Backend", Value: 2},
		{Name: "Frontend", Value: 1},
		{Name: "QA", Value: 1},
	}, got.Charts.HeadcountByStream)

	// Projects ordered by headcount descending.
	assert.Equal(t, []types.NameValue{
		{Name: "Apollo", Value: 3},
		{Name: "Borealis", Value: 1},
	}, got.Charts.HeadcountPerProject)

	// Fixed bucket order; >90 days excluded.
	assert.Equal(t, []types.NameValue{
		{Name: expiry.Bucket0to30, Value: 1},
		{Name: expiry.Bucket31to60, Value: 1},
		{Name: expiry.Bucket61to90, Value: 1},
	}, got.Charts.ExpiringContractsBreakdown)

	// One pivot row per project with explicit zeroes per stream.
	require.Len(t, got.Charts.ProjectStreamDistribution, 2)
	apollo := got.Charts.ProjectStreamDistribution[0]
	assert.Equal(t, "Apollo", apollo.Project)
	assert.Equal(t, 2, apollo.Backend)
	assert.Equal(t, 1, apollo.Frontend)
	assert.Equal(t, 0, apollo.QA)
}

func TestBuildAtRiskTopFive(t *testing.T) {
	recs := []types.Record{
		rec("F", "F", "P", "QA", 100, float64(25)),
		rec("A", "A", "P", "QA", 100, float64(5)),
		rec("B", "B", "P", "QA", 100, float64(10)),
		rec("C", "C", "P", "QA", 100, float64(15)),
		rec("D", "D", "P", "QA", 100, float64(20)),
		rec("E", "E", "P", "QA", 100, float64(22)),
		rec("Safe", "S", "P", "QA", 100, float64(60)),
	}

	got := Build(recs)
	require.Len(t, got.AtRiskEmployees, 5)
	// Ascending by days left, soonest first; the sixth is cut.
	assert.Equal(t, "A A", got.AtRiskEmployees[0].Name)
	assert.Equal(t, 5, got.AtRiskEmployees[0].DaysLeft)
	assert.Equal(t, 22, got.AtRiskEmployees[4].DaysLeft)
}

func TestBuildSkills(t *testing.T) {
	got := BuildSkills([]types.Record{
		rec("A", "A", "P", "Backend", 100, nil, "Go", "SQL"),
		rec("B", "B", "P", "Backend", 100, nil, "Go"),
		rec("C", "C", "P", "Frontend", 100, nil, "React"),
		rec("D", "D", "P", "", 100, nil, "Ignored"),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Backend", got[0].Stream)
	assert.Equal(t, []types.SkillCount{
		{Name: "Go", Count: 2},
		{Name: "SQL", Count: 1},
	}, got[0].Skills)
	assert.Equal(t, "Frontend", got[1].Stream)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Alice Adams", FullName(types.Record{
		schema.FieldFirstName: "Alice", schema.FieldLastName: "Adams",
	}))
	assert.Equal(t, "Alice", FullName(types.Record{schema.FieldFirstName: "Alice"}))
	assert.Equal(t, "", FullName(types.Record{}))
}
