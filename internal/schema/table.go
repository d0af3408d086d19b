package schema

import "sort"

// Spec is the constructor input for a Table.
type Spec struct {
	// Rename maps raw column names to canonical names. Unmapped names
	// pass through untouched.
	Rename map[string]string
	// TimeColumns are coerced to timestamps during the global steps.
	TimeColumns []string
	// SortColumn, when present in a batch, orders rows ascending. An
	// absent sort column is skipped, never an error.
	SortColumn string
	// DropExactDuplicates enables exact full-row deduplication.
	DropExactDuplicates bool
	// KeyColumns designate the uniqueness key for key-based dedup,
	// within a batch and across stream chunks.
	KeyColumns []string
	// Plans holds the per-column strategy selection.
	Plans map[string]ColumnPlan
}

// Table is an immutable strategy table: the global cleaning steps plus a
// per-column plan. Construct one explicitly per pipeline run and pass it
// into each engine instance; tables are never shared mutable state.
type Table struct {
	rename      map[string]string
	timeColumns []string
	sortColumn  string
	dropDupes   bool
	keyColumns  []string
	plans       map[string]ColumnPlan
	planColumns []string
}

// NewTable builds a Table, deep-copying the spec so later mutation of
// the input maps cannot leak in.
func NewTable(spec Spec) Table {
	t := Table{
		rename:      make(map[string]string, len(spec.Rename)),
		timeColumns: append([]string(nil), spec.TimeColumns...),
		sortColumn:  spec.SortColumn,
		dropDupes:   spec.DropExactDuplicates,
		keyColumns:  append([]string(nil), spec.KeyColumns...),
		plans:       make(map[string]ColumnPlan, len(spec.Plans)),
	}
	for k, v := range spec.Rename {
		t.rename[k] = v
	}
	for col, plan := range spec.Plans {
		t.plans[col] = plan
		t.planColumns = append(t.planColumns, col)
	}
	sort.Strings(t.planColumns)
	return t
}

// Rename returns the column rename mapping.
func (t Table) Rename() map[string]string {
	out := make(map[string]string, len(t.rename))
	for k, v := range t.rename {
		out[k] = v
	}
	return out
}

// TimeColumns returns the columns coerced to timestamps.
func (t Table) TimeColumns() []string {
	return append([]string(nil), t.timeColumns...)
}

// SortColumn returns the designated sort column, or "" for none.
func (t Table) SortColumn() string { return t.sortColumn }

// DropExactDuplicates reports whether full-row dedup is enabled.
func (t Table) DropExactDuplicates() bool { return t.dropDupes }

// KeyColumns returns the uniqueness-key columns, or nil for none.
func (t Table) KeyColumns() []string {
	return append([]string(nil), t.keyColumns...)
}

// Plan returns the plan for a column. Unknown columns get the zero plan,
// never an error: unmapped columns pass through untouched.
func (t Table) Plan(column string) ColumnPlan {
	return t.plans[column]
}

// PlanColumns returns the planned column names in deterministic order.
func (t Table) PlanColumns() []string {
	return append([]string(nil), t.planColumns...)
}

// CleaningTable is the canonical cleaning plan for the AEP hourly load
// data: canonical renames, datetime coercion and ordering, exact and
// key-based dedup, then IQR outlier nulling and mean fill on the target.
func CleaningTable(targetColumn string) Table {
	return NewTable(Spec{
		Rename: map[string]string{
			"Datetime": "datetime",
			"AEP_MW":   "aep_mw",
		},
		TimeColumns:         []string{"datetime"},
		SortColumn:          "datetime",
		DropExactDuplicates: true,
		KeyColumns:          []string{"datetime"},
		Plans: map[string]ColumnPlan{
			targetColumn: {
				Outlier: OutlierIQR,
				Missing: MissingMean,
			},
			"datetime": {},
		},
	})
}

// PreprocessingTable is the canonical preprocessing plan: min-max scale
// the target into [0,1] and extract calendar components from datetime.
// No global steps run here; cleaning already handled them.
func PreprocessingTable(targetColumn string) Table {
	return NewTable(Spec{
		Plans: map[string]ColumnPlan{
			targetColumn: {
				Scaling: ScalingMinMax,
			},
			"datetime": {
				Extract: ExtractCalendar,
			},
		},
	})
}
