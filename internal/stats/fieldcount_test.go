package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventreg/internal/registration/models"
	"eventreg/pkg/testutil"
)

func decode(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestComputeFieldCounts(t *testing.T) {
	testutil.Given(t, "no records", func(t *testing.T) {
		got := ComputeFieldCounts(nil, "any.path")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	testutil.Given(t, "nested numeric values", func(t *testing.T) {
		records := decode(t, `[{"a":{"b":1}},{"a":{"b":1}},{"a":{"b":2}}]`)
		testutil.Then(t, "labels are stringified and sorted", func(t *testing.T) {
			assert.Equal(t, []FieldCount{{Label: "1", Value: 2}, {Label: "2", Value: 1}}, ComputeFieldCounts(records, "a.b"))
		})
	})

	testutil.Given(t, "records missing part of the path", func(t *testing.T) {
		records := decode(t, `[
			{"basicInformation":{"year":"3"}},
			{"basicInformation":{}},
			{"basicInformation":"flat"},
			{"other":true},
			{"basicInformation":{"year":null}},
			{"basicInformation":{"year":"1"}},
			{"basicInformation":{"year":"3"}}
		]`)
		testutil.Then(t, "those records are skipped", func(t *testing.T) {
			assert.Equal(t, []FieldCount{{Label: "1", Value: 1}, {Label: "3", Value: 2}},
				ComputeFieldCounts(records, "basicInformation.year"))
		})
	})

	testutil.Given(t, "a single segment path", func(t *testing.T) {
		records := decode(t, `[{"isPartner":true},{"isPartner":false},{"isPartner":true}]`)
		assert.Equal(t, []FieldCount{{Label: "false", Value: 1}, {Label: "true", Value: 2}},
			ComputeFieldCounts(records, "isPartner"))
	})

	testutil.Given(t, "no record reaches the leaf", func(t *testing.T) {
		records := decode(t, `[{"a":1},{"a":{"c":2}}]`)
		testutil.When(t, "counting a.b", func(t *testing.T) {
			got := ComputeFieldCounts(records, "a.b")
			testutil.Then(t, "the table is empty", func(t *testing.T) {
				assert.Empty(t, got)
			})
			testutil.And(t, "still a non-nil slice", func(t *testing.T) {
				assert.NotNil(t, got)
			})
		})
	})

	testutil.Given(t, "large integer values", func(t *testing.T) {
		records := decode(t, `[{"points":1000000},{"points":12345678},{"points":1000000},{"points":2.5}]`)
		testutil.Then(t, "labels are plain decimal", func(t *testing.T) {
			assert.Equal(t, []FieldCount{
				{Label: "1000000", Value: 2},
				{Label: "12345678", Value: 1},
				{Label: "2.5", Value: 1},
			}, ComputeFieldCounts(records, "points"))
		})
	})

	testutil.Given(t, "array values", func(t *testing.T) {
		records := decode(t, `[{"tags":["a","b"]},{"tags":["a","b"]},{"tags":[1,null,true]}]`)
		testutil.Then(t, "elements are joined with commas", func(t *testing.T) {
			assert.Equal(t, []FieldCount{
				{Label: "1,,true", Value: 1},
				{Label: "a,b", Value: 2},
			}, ComputeFieldCounts(records, "tags"))
		})
	})

	testutil.Given(t, "labels that sort lexicographically", func(t *testing.T) {
		records := decode(t, `[{"n":10},{"n":9},{"n":100}]`)
		got := ComputeFieldCounts(records, "n")
		require.Len(t, got, 3)
		assert.Equal(t, []string{"10", "100", "9"}, []string{got[0].Label, got[1].Label, got[2].Label})
	})
}

func TestStatusBreakdown(t *testing.T) {
	records := []models.Record{
		{RegistrationStatus: models.StatusWaitlisted},
		{RegistrationStatus: "mystery"},
		{RegistrationStatus: models.StatusCheckedIn},
		{RegistrationStatus: models.StatusWaitlisted},
		{RegistrationStatus: ""},
	}

	got := StatusBreakdown(records)
	require.Len(t, got, 4)

	assert.Equal(t, models.StatusCheckedIn, got[0].Status)
	assert.Equal(t, models.StatusWaitlisted, got[1].Status)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, models.LabelOf(models.StatusWaitlisted), got[1].Label)

	assert.Equal(t, models.Status(""), got[2].Status)
	assert.Equal(t, models.UnknownSortOrder, got[2].SortOrder)
	assert.Equal(t, models.DefaultColor, got[2].Color)
	assert.Equal(t, models.Status("mystery"), got[3].Status)
	assert.Equal(t, "mystery", got[3].Label)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "3", "3"},
		{"bool", false, "false"},
		{"whole float", float64(1000000), "1000000"},
		{"large float", float64(12345678), "12345678"},
		{"fraction", 0.125, "0.125"},
		{"negative", float64(-42), "-42"},
		{"int", 7, "7"},
		{"nested array", []any{"x", []any{"y", "z"}}, "x,y,z"},
		{"empty array", []any{}, ""},
		{"object", map[string]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringify(tt.value))
		})
	}
}
