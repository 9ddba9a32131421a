package join

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/area"
	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

var orlandoArea = &area.Area{
	City:       "Orlando",
	State:      "FL",
	County:     "Orange County",
	StateFIPS:  "12",
	CountyFIPS: "095",
}

func orlandoSelection(start, end int) model.Selection {
	return model.Selection{City: "Orlando", State: "FL", StartYear: start, EndYear: end}
}

func TestCity_JoinsAllSources(t *testing.T) {
	frags := model.SourceFragments{
		Demographics: []model.DemographicYear{
			{Year: 2019, Population: 100000, MedianAge: 35.0},
			{Year: 2020, Population: 105000, MedianAge: 35.5},
		},
		Employment: []model.EmploymentYear{
			{Year: 2019, UnemploymentRate: floatPtr(4.0), Employed: floatPtr(50000)},
			{Year: 2020, UnemploymentRate: floatPtr(8.0), Employed: floatPtr(47000)},
		},
		Crime: []model.CrimeYear{
			{Year: 2019, CrimeIndex: 310.2},
			{Year: 2020, CrimeIndex: 295.8},
		},
	}

	dataset, warnings, err := City(orlandoSelection(2019, 2020), orlandoArea, frags)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.False(t, dataset.CrimePartial)

	require.Len(t, dataset.Records, 2)
	assert.Equal(t, "Orlando", dataset.City)
	assert.Equal(t, "Orange County", dataset.County)
	assert.Equal(t, "12095", dataset.FIPS)

	rec := dataset.Records[0]
	assert.Equal(t, 2019, rec.Year)
	assert.Equal(t, "Orlando, FL", rec.CityID)
	assert.Equal(t, int64(100000), rec.Population)
	require.NotNil(t, rec.UnemploymentRate)
	assert.Equal(t, 4.0, *rec.UnemploymentRate)
	require.NotNil(t, rec.CrimeIndex)
	assert.Equal(t, 310.2, *rec.CrimeIndex)
}

func TestCity_DemographicsAnchorTheJoin(t *testing.T) {
	// Employment and crime years without a demographic record are dropped.
	frags := model.SourceFragments{
		Demographics: []model.DemographicYear{{Year: 2020, Population: 100000, MedianAge: 35.0}},
		Employment: []model.EmploymentYear{
			{Year: 2019, Employed: floatPtr(1)},
			{Year: 2020, Employed: floatPtr(2)},
		},
		Crime: []model.CrimeYear{
			{Year: 2019, CrimeIndex: 1},
			{Year: 2020, CrimeIndex: 2},
		},
	}

	dataset, _, err := City(orlandoSelection(2019, 2020), orlandoArea, frags)
	require.NoError(t, err)
	require.Len(t, dataset.Records, 1)
	assert.Equal(t, 2020, dataset.Records[0].Year)
}

func TestCity_FiltersDemographicsToRange(t *testing.T) {
	frags := model.SourceFragments{
		Demographics: []model.DemographicYear{
			{Year: 2015, Population: 1, MedianAge: 30},
			{Year: 2018, Population: 2, MedianAge: 31},
			{Year: 2022, Population: 3, MedianAge: 32},
		},
		Crime: []model.CrimeYear{{Year: 2018, CrimeIndex: 100}},
	}

	dataset, warnings, err := City(orlandoSelection(2017, 2019), orlandoArea, frags)
	require.NoError(t, err)
	require.Len(t, dataset.Records, 1)
	assert.Equal(t, 2018, dataset.Records[0].Year)
	assert.Empty(t, warnings)
}

func TestCity_NoDemographicYearsInRange(t *testing.T) {
	frags := model.SourceFragments{
		Demographics: []model.DemographicYear{{Year: 2012, Population: 1, MedianAge: 30}},
	}

	_, _, err := City(orlandoSelection(2018, 2020), orlandoArea, frags)
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrNoDataForRange))
}

func TestCity_MissingCrimeYearsAreRetained(t *testing.T) {
	// Demographics span 2015-2020, crime only covers 2018-2020. The earlier
	// years stay in the dataset with a null index and a single warning
	// identifies the gap.
	var demo []model.DemographicYear
	for year := 2015; year <= 2020; year++ {
		demo = append(demo, model.DemographicYear{Year: year, Population: int64(100000 + year), MedianAge: 35})
	}
	frags := model.SourceFragments{
		Demographics: demo,
		Crime: []model.CrimeYear{
			{Year: 2018, CrimeIndex: 300},
			{Year: 2019, CrimeIndex: 290},
			{Year: 2020, CrimeIndex: 280},
		},
	}

	dataset, warnings, err := City(orlandoSelection(2015, 2020), orlandoArea, frags)
	require.NoError(t, err)
	require.Len(t, dataset.Records, 6)
	assert.True(t, dataset.CrimePartial)

	for _, rec := range dataset.Records {
		if rec.Year < 2018 {
			assert.Nil(t, rec.CrimeIndex, "year %d should have a null crime index", rec.Year)
		} else {
			assert.NotNil(t, rec.CrimeIndex, "year %d should carry its crime index", rec.Year)
		}
	}

	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, model.WarnPartialCrimeData, w.Code)
	assert.Equal(t, "Orlando, FL", w.City)
	assert.False(t, w.Fatal)
	assert.Contains(t, w.Detail, "2015-2017")
}

func TestCity_NoCrimeFragmentsAtAll(t *testing.T) {
	frags := model.SourceFragments{
		Demographics: []model.DemographicYear{
			{Year: 2019, Population: 1, MedianAge: 30},
			{Year: 2020, Population: 2, MedianAge: 31},
		},
	}

	dataset, warnings, err := City(orlandoSelection(2019, 2020), orlandoArea, frags)
	require.NoError(t, err)
	assert.True(t, dataset.CrimePartial)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Detail, "2019-2020")
}

func TestCity_RecordsSortedByYear(t *testing.T) {
	frags := model.SourceFragments{
		Demographics: []model.DemographicYear{
			{Year: 2020, Population: 3, MedianAge: 30},
			{Year: 2018, Population: 1, MedianAge: 30},
			{Year: 2019, Population: 2, MedianAge: 30},
		},
		Crime: []model.CrimeYear{
			{Year: 2018, CrimeIndex: 1}, {Year: 2019, CrimeIndex: 2}, {Year: 2020, CrimeIndex: 3},
		},
	}

	dataset, _, err := City(orlandoSelection(2018, 2020), orlandoArea, frags)
	require.NoError(t, err)
	years := []int{dataset.Records[0].Year, dataset.Records[1].Year, dataset.Records[2].Year}
	assert.Equal(t, []int{2018, 2019, 2020}, years)
}

func TestCity_Idempotent(t *testing.T) {
	frags := model.SourceFragments{
		Demographics: []model.DemographicYear{
			{Year: 2018, Population: 100000, MedianAge: 35.0},
			{Year: 2019, Population: 101000, MedianAge: 35.2},
			{Year: 2020, Population: 102000, MedianAge: 35.4},
		},
		Employment: []model.EmploymentYear{
			{Year: 2019, UnemploymentRate: floatPtr(4.0), Employed: floatPtr(50000)},
		},
		Crime: []model.CrimeYear{
			{Year: 2019, CrimeIndex: 310.2},
			{Year: 2020, CrimeIndex: 295.8},
		},
	}
	sel := orlandoSelection(2018, 2020)

	first, firstWarnings, err := City(sel, orlandoArea, frags)
	require.NoError(t, err)
	second, secondWarnings, err := City(sel, orlandoArea, frags)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstWarnings, secondWarnings)
}

func TestFormatYears(t *testing.T) {
	tests := []struct {
		years []int
		want  string
	}{
		{[]int{2015}, "2015"},
		{[]int{2015, 2016, 2017}, "2015-2017"},
		{[]int{2015, 2017}, "2015, 2017"},
		{[]int{2010, 2011, 2014, 2016, 2017, 2018}, "2010-2011, 2014, 2016-2018"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatYears(tt.years))
	}
}
