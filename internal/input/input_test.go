package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Orlando", TitleCase("orlando"))
	assert.Equal(t, "St. Augustine", TitleCase("st. augustine"))
	assert.Equal(t, "Winter Park", TitleCase("  WINTER PARK  "))
}

func TestParseCityFlag(t *testing.T) {
	city, state, err := ParseCityFlag("orlando,fl")
	require.NoError(t, err)
	assert.Equal(t, "Orlando", city)
	assert.Equal(t, "FL", state)

	city, state, err = ParseCityFlag("Winter Park, FL")
	require.NoError(t, err)
	assert.Equal(t, "Winter Park", city)
	assert.Equal(t, "FL", state)

	_, _, err = ParseCityFlag("Orlando")
	assert.Error(t, err)

	_, _, err = ParseCityFlag(",FL")
	assert.Error(t, err)
}

func TestFromFlags(t *testing.T) {
	selections, err := FromFlags([]string{"Orlando,FL", "Tampa,FL"}, 2015, 2020)
	require.NoError(t, err)
	require.Len(t, selections, 2)
	assert.Equal(t, model.Selection{City: "Orlando", State: "FL", StartYear: 2015, EndYear: 2020}, selections[0])
	assert.Equal(t, "Tampa", selections[1].City)
}

func TestLoadFile_CSV(t *testing.T) {
	path := writeTempFile(t, "cities.csv",
		"city,state,start_year,end_year\norlando,fl,2015,2020\ntampa,FL,2016,2021\n")

	selections, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, selections, 2)
	assert.Equal(t, model.Selection{City: "Orlando", State: "FL", StartYear: 2015, EndYear: 2020}, selections[0])
	assert.Equal(t, model.Selection{City: "Tampa", State: "FL", StartYear: 2016, EndYear: 2021}, selections[1])
}

func TestLoadFile_CSVColumnOrderIndependent(t *testing.T) {
	path := writeTempFile(t, "cities.csv",
		"end_year,city,start_year,state\n2020,Orlando,2015,FL\n")

	selections, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, selections, 1)
	assert.Equal(t, 2015, selections[0].StartYear)
	assert.Equal(t, 2020, selections[0].EndYear)
}

func TestLoadFile_CSVMissingColumn(t *testing.T) {
	path := writeTempFile(t, "cities.csv", "city,state\nOrlando,FL\n")

	_, err := LoadFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_year")
}

func TestLoadFile_CSVBadYear(t *testing.T) {
	path := writeTempFile(t, "cities.csv",
		"city,state,start_year,end_year\nOrlando,FL,abc,2020\n")

	_, err := LoadFile(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeTempFile(t, "cities.yaml", `cities:
  - city: orlando
    state: fl
    start_year: 2015
    end_year: 2020
  - city: Tampa
    state: FL
    start_year: 2016
    end_year: 2021
`)

	selections, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, selections, 2)
	assert.Equal(t, "Orlando", selections[0].City)
	assert.Equal(t, "FL", selections[0].State)
	assert.Equal(t, 2021, selections[1].EndYear)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "cities.txt", "Orlando")

	_, err := LoadFile(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadFile_EmptyCSV(t *testing.T) {
	path := writeTempFile(t, "cities.csv", "")

	_, err := LoadFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadFile_HeaderOnlyCSV(t *testing.T) {
	path := writeTempFile(t, "cities.csv", "city,state,start_year,end_year\n")

	selections, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, selections)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
