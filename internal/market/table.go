package market

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyJoin is returned when the input series share no timestamps at all,
// e.g. disjoint time ranges or mismatched timeframes.
var ErrEmptyJoin = errors.New("aligned price table is empty")

// Table is a row-per-timestamp structure with one float64 column per name.
// Index is ascending and every column has exactly len(Index) values.
type Table struct {
	Index   []time.Time
	names   []string
	columns map[string][]float64
}

func (t *Table) Len() int { return len(t.Index) }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *Table) Column(name string) ([]float64, bool) {
	col, ok := t.columns[name]
	return col, ok
}

func (t *Table) addColumn(name string, values []float64) error {
	if len(values) != len(t.Index) {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), len(t.Index))
	}
	if _, exists := t.columns[name]; exists {
		return fmt.Errorf("column %s already exists", name)
	}
	t.names = append(t.names, name)
	t.columns[name] = values
	return nil
}

// BuildAligned inner-joins the series on timestamp equality: a row survives
// only if every series has a price at that instant. Column order follows the
// series order. Returns ErrEmptyJoin when nothing overlaps.
func BuildAligned(series []Series) (*Table, error) {
	if len(series) == 0 {
		return nil, errors.New("no series to align")
	}
	normalized := make([]Series, len(series))
	for i, s := range series {
		normalized[i] = s.NormalizeAscending()
	}
	byTime := make([]map[int64]float64, len(normalized))
	for i, s := range normalized {
		prices := make(map[int64]float64, len(s.Points))
		for _, p := range s.Points {
			prices[p.Time.UnixMilli()] = p.Price
		}
		byTime[i] = prices
	}

	table := &Table{columns: make(map[string][]float64)}
	cols := make([][]float64, len(normalized))
	// Walk the first series in order; the others are probed by timestamp.
	for _, p := range normalized[0].Points {
		key := p.Time.UnixMilli()
		present := true
		for i := 1; i < len(byTime); i++ {
			if _, ok := byTime[i][key]; !ok {
				present = false
				break
			}
		}
		if !present {
			continue
		}
		table.Index = append(table.Index, p.Time)
		for i := range byTime {
			cols[i] = append(cols[i], byTime[i][key])
		}
	}
	if len(table.Index) == 0 {
		return nil, ErrEmptyJoin
	}
	for i, s := range normalized {
		if err := table.addColumn(s.Alias, cols[i]); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// AddSpreads appends the three pairwise difference columns for a table with
// exactly three price columns A, B, C: A_minus_B, A_minus_C, C_minus_B.
func AddSpreads(t *Table) error {
	names := t.Columns()
	if len(names) != 3 {
		return fmt.Errorf("expected 3 price columns, got %d", len(names))
	}
	pairs := [][2]string{
		{names[0], names[1]},
		{names[0], names[2]},
		{names[2], names[1]},
	}
	for _, pair := range pairs {
		left, _ := t.Column(pair[0])
		right, _ := t.Column(pair[1])
		diff := make([]float64, t.Len())
		for i := range diff {
			diff[i] = left[i] - right[i]
		}
		if err := t.addColumn(SpreadName(pair[0], pair[1]), diff); err != nil {
			return err
		}
	}
	return nil
}

// SpreadName is the fixed naming convention for derived columns.
func SpreadName(a, b string) string {
	return a + "_minus_" + b
}

// SpreadColumns returns the names of the derived columns in the order
// AddSpreads appended them. Valid only for a three-alias table.
func SpreadColumns(aliases []string) []string {
	return []string{
		SpreadName(aliases[0], aliases[1]),
		SpreadName(aliases[0], aliases[2]),
		SpreadName(aliases[2], aliases[1]),
	}
}
