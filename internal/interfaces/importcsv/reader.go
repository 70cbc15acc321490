package importcsv

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/platform/id"
)

const (
	colName = iota
	colDescription
	colPoints
	colUnused
	colWindow

	minColumns = colWindow + 1
)

// Parser turns challenge sheets into catalog records. The first row is a
// header and is skipped.
type Parser struct {
	ids     id.Generator
	windows *Windows
}

func NewParser(ids id.Generator, windows *Windows) *Parser {
	return &Parser{ids: ids, windows: windows}
}

// Parse reads every data row. Row numbers in errors are 1-based and count
// the header.
func (p *Parser) Parse(r io.Reader) ([]challenge.Challenge, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "read header")
	}

	var out []challenge.Challenge
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, crerr.Wrapf(err, "read row %d", row)
		}
		if isBlank(record) {
			continue
		}

		item, err := p.parseRecord(record)
		if err != nil {
			return nil, crerr.Wrapf(err, "row %d", row)
		}
		out = append(out, item)
	}
	return out, nil
}

func (p *Parser) parseRecord(record []string) (challenge.Challenge, error) {
	if len(record) < minColumns {
		return challenge.Challenge{}, crerr.Newf("expected %d columns, got %d", minColumns, len(record))
	}

	name := strings.TrimSpace(record[colName])
	if name == "" {
		return challenge.Challenge{}, crerr.New("name is empty")
	}
	points, err := parsePoints(record[colPoints])
	if err != nil {
		return challenge.Challenge{}, err
	}
	challengeID, err := p.ids.NewID()
	if err != nil {
		return challenge.Challenge{}, crerr.Wrap(err, "generate challenge id")
	}
	window, _ := p.windows.Lookup(record[colWindow])

	return challenge.Challenge{
		ID:          challengeID,
		Name:        name,
		Description: strings.TrimSpace(record[colDescription]),
		Points:      points,
		Start:       window.Start,
		End:         window.End,
		MaxCount:    challenge.DefaultMaxCount,
	}, nil
}

// parsePoints accepts integer cells, including spreadsheet exports such as "10.0".
func parsePoints(raw string) (int64, error) {
	value := strings.TrimSpace(raw)
	if points, err := strconv.ParseInt(value, 10, 64); err == nil {
		return points, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, crerr.Newf("invalid points %q", raw)
	}
	return int64(f), nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
