package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestYearRecordMetricValue(t *testing.T) {
	rec := YearRecord{
		Year:       2020,
		Population: 150000,
		MedianAge:  36.5,
		Employed:   floatPtr(72000),
	}

	v, ok := rec.MetricValue(MetricPopulation)
	require.True(t, ok)
	assert.Equal(t, 150000.0, v)

	v, ok = rec.MetricValue(MetricEmployment)
	require.True(t, ok)
	assert.Equal(t, 72000.0, v)

	_, ok = rec.MetricValue(MetricCrimeIndex)
	assert.False(t, ok, "nil crime index should report missing")
}

func TestCityDatasetSortAndLookup(t *testing.T) {
	d := CityDataset{
		City:  "Orlando",
		State: "FL",
		Records: []YearRecord{
			{Year: 2020}, {Year: 2018}, {Year: 2019},
		},
	}
	d.Sort()

	assert.Equal(t, []int{2018, 2019, 2020}, []int{d.Records[0].Year, d.Records[1].Year, d.Records[2].Year})

	rec, ok := d.Record(2019)
	require.True(t, ok)
	assert.Equal(t, 2019, rec.Year)

	_, ok = d.Record(2021)
	assert.False(t, ok)

	assert.Equal(t, "Orlando, FL", d.Key())
}

func TestCorrelationMatrixJSON(t *testing.T) {
	m := &CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values: [][]float64{
			{1.0, math.NaN()},
			{math.NaN(), 1.0},
		},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["a","b"],"values":[[1,null],[null,1]]}`, string(data))

	var back CorrelationMatrix
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 1.0, back.At(0, 0))
	assert.True(t, math.IsNaN(back.At(0, 1)))
}
