package challenge

import "fmt"

// DefaultMaxCount is applied when imported data does not carry a limit.
const DefaultMaxCount = 1

// Challenge is a task players can request and admins can validate.
// Start and End are epoch seconds, both inclusive.
type Challenge struct {
	ID          string
	Name        string
	Description string
	PictureID   string
	Points      int64
	Start       int64
	End         int64
	MaxCount    int
}

func (c Challenge) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("challenge id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("challenge name is required")
	}
	if c.End < c.Start {
		return fmt.Errorf("challenge window end before start: %s", c.ID)
	}
	if c.MaxCount <= 0 {
		return fmt.Errorf("challenge max count must be greater than zero: %s", c.ID)
	}

	return nil
}

// IsActive reports whether now falls inside [Start, End].
func (c Challenge) IsActive(now int64) bool {
	return now >= c.Start && now <= c.End
}

// Index maps challenge id to its record.
type Index map[string]Challenge

// NewIndex builds an Index; the first record wins on duplicate ids.
func NewIndex(items []Challenge) Index {
	out := make(Index, len(items))
	for _, item := range items {
		if _, exists := out[item.ID]; exists {
			continue
		}
		out[item.ID] = item
	}
	return out
}

// PointsOf returns the points of id, or zero when id is unknown.
func (i Index) PointsOf(id string) int64 {
	item, ok := i[id]
	if !ok {
		return 0
	}
	return item.Points
}
