package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// rawTable is the YAML shape of a strategy table.
type rawTable struct {
	Rename         map[string]string  `yaml:"rename"`
	TimeColumns    []string           `yaml:"time_columns"`
	SortColumn     string             `yaml:"sort_column"`
	DropDuplicates bool               `yaml:"drop_duplicates"`
	KeyColumns     []string           `yaml:"key_columns"`
	Columns        map[string]rawPlan `yaml:"columns"`
}

type rawPlan struct {
	MissingValue      string `yaml:"missing_value"`
	OutlierDetection  string `yaml:"outlier_detection"`
	Scaling           string `yaml:"scaling"`
	Transformation    string `yaml:"transformation"`
	Encoding          string `yaml:"encoding"`
	FeatureExtraction string `yaml:"feature_extraction"`
}

// ParseTable builds a Table from YAML. A malformed document is an error;
// an unknown strategy name inside it is only a configuration gap, so the
// affected kind is logged and skipped while the rest of the table stands.
func ParseTable(data []byte, log *logger.Logger) (Table, error) {
	var raw rawTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Table{}, fmt.Errorf("parse strategy table: %w", err)
	}

	plans := make(map[string]ColumnPlan, len(raw.Columns))
	for col, rp := range raw.Columns {
		var plan ColumnPlan
		var ok bool

		if plan.Missing, ok = ParseMissingStrategy(rp.MissingValue); !ok {
			warnUnknown(log, col, "missing_value", rp.MissingValue)
		}
		if plan.Outlier, ok = ParseOutlierStrategy(rp.OutlierDetection); !ok {
			warnUnknown(log, col, "outlier_detection", rp.OutlierDetection)
		}
		if plan.Scaling, ok = ParseScalingStrategy(rp.Scaling); !ok {
			warnUnknown(log, col, "scaling", rp.Scaling)
		}
		if plan.Transform, ok = ParseTransformStrategy(rp.Transformation); !ok {
			warnUnknown(log, col, "transformation", rp.Transformation)
		}
		if plan.Encoding, ok = ParseEncodingStrategy(rp.Encoding); !ok {
			warnUnknown(log, col, "encoding", rp.Encoding)
		}
		if plan.Extract, ok = ParseExtractStrategy(rp.FeatureExtraction); !ok {
			warnUnknown(log, col, "feature_extraction", rp.FeatureExtraction)
		}

		plans[col] = plan
	}

	return NewTable(Spec{
		Rename:              raw.Rename,
		TimeColumns:         raw.TimeColumns,
		SortColumn:          raw.SortColumn,
		DropExactDuplicates: raw.DropDuplicates,
		KeyColumns:          raw.KeyColumns,
		Plans:               plans,
	}), nil
}

func warnUnknown(log *logger.Logger, column, kind, name string) {
	log.WithFields(map[string]interface{}{
		"column":   column,
		"kind":     kind,
		"strategy": name,
	}).Warn("Unknown strategy name, skipping this kind")
}
