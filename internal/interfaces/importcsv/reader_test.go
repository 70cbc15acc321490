package importcsv

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testWindows = `
timezone: UTC
default:
  start: "11/09/2023 12:00:00"
  end: "07/10/2023 00:00:00"
windows:
  "Défi Permanent":
    start: "11/09/2023 12:00:00"
    end: "07/10/2023 00:00:00"
  "semaine 2":
    start: "18/09/2023 00:00:00"
    end: "24/09/2023 23:59:59"
`

type sequenceIDs struct {
	next int
}

func (s *sequenceIDs) NewID() (string, error) {
	s.next++
	return fmt.Sprintf("challenge-%d", s.next), nil
}

func mustWindows(t *testing.T) *Windows {
	t.Helper()
	windows, err := LoadWindows(strings.NewReader(testWindows))
	require.NoError(t, err)
	return windows
}

func epoch(t *testing.T, raw string) int64 {
	t.Helper()
	parsed, err := time.ParseInLocation(defaultTimeLayout, raw, time.UTC)
	require.NoError(t, err)
	return parsed.Unix()
}

func TestWindows_LookupIsCaseInsensitive(t *testing.T) {
	windows := mustWindows(t)

	got, ok := windows.Lookup("  défi   permanent ")
	require.True(t, ok)
	require.Equal(t, epoch(t, "11/09/2023 12:00:00"), got.Start)

	got, ok = windows.Lookup("semaine 9")
	require.False(t, ok)
	require.Equal(t, epoch(t, "07/10/2023 00:00:00"), got.End)
}

func TestLoadWindows_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad zone", yaml: "timezone: Mars/Olympus\ndefault: {start: \"11/09/2023 12:00:00\", end: \"12/09/2023 12:00:00\"}"},
		{name: "bad time", yaml: "default: {start: \"2023-09-11\", end: \"12/09/2023 12:00:00\"}"},
		{name: "reversed", yaml: "default: {start: \"12/09/2023 12:00:00\", end: \"11/09/2023 12:00:00\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWindows(strings.NewReader(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser(&sequenceIDs{}, mustWindows(t))
	input := strings.Join([]string{
		"Nom,Description,Points,Type,Semaine",
		"Run,Run 5k,10,sport,semaine 2",
		`"Photo, team",Take a team photo,20.0,fun,Défi permanent`,
		",,,,",
		"Mystery,Unknown label,5,misc,bonus",
	}, "\n")

	items, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.Equal(t, "challenge-1", items[0].ID)
	require.Equal(t, "Run", items[0].Name)
	require.EqualValues(t, 10, items[0].Points)
	require.Equal(t, epoch(t, "18/09/2023 00:00:00"), items[0].Start)
	require.Equal(t, epoch(t, "24/09/2023 23:59:59"), items[0].End)
	require.Equal(t, 1, items[0].MaxCount)
	require.Empty(t, items[0].PictureID)

	require.Equal(t, "Photo, team", items[1].Name)
	require.EqualValues(t, 20, items[1].Points)

	require.Equal(t, epoch(t, "11/09/2023 12:00:00"), items[2].Start)
	for _, item := range items {
		require.NoError(t, item.Validate())
	}
}

func TestParser_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "short row", input: "h1,h2,h3,h4,h5\nRun,desc,10", want: "row 2"},
		{name: "bad points", input: "h1,h2,h3,h4,h5\nRun,desc,ten,x,semaine 2", want: "invalid points"},
		{name: "fractional points", input: "h1,h2,h3,h4,h5\nRun,desc,2.5,x,semaine 2", want: "invalid points"},
		{name: "empty name", input: "h1,h2,h3,h4,h5\n ,desc,2,x,semaine 2", want: "name is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(&sequenceIDs{}, mustWindows(t))
			_, err := parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParser_EmptyInput(t *testing.T) {
	parser := NewParser(&sequenceIDs{}, mustWindows(t))

	items, err := parser.Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, items)
}
