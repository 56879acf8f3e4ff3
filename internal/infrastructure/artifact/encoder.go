package artifact

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/scudettolab/seriea-predictor/internal/domain/predict"
)

type encoderColumn struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

type encoderArtifact struct {
	Version     string          `json:"version"`
	SchemaHash  string          `json:"schema_hash"`
	Categorical []encoderColumn `json:"categorical"`
	Numeric     []string        `json:"numeric"`
}

// OneHotEncoder is the fitted categorical transform. Each categorical
// column expands into one indicator slot per fitted category; the
// numeric columns are appended unchanged.
//
// A value outside the fitted vocabulary encodes to an all-zero block
// instead of an error. That leniency is deliberate and load-bearing:
// it is what lets the service estimate fixtures for teams, opponents
// and formations the trainer never saw.
type OneHotEncoder struct {
	columns []encoderColumn
	index   []map[string]int
	offsets []int
	width   int
}

func newOneHotEncoder(spec encoderArtifact) (*OneHotEncoder, error) {
	if len(spec.Categorical) != len(predict.CategoricalColumns) {
		return nil, crerr.Newf("encoder has %d categorical columns, serving schema has %d",
			len(spec.Categorical), len(predict.CategoricalColumns))
	}
	for i, col := range spec.Categorical {
		if col.Name != predict.CategoricalColumns[i] {
			return nil, crerr.Newf("encoder categorical column %d is %q, serving schema expects %q",
				i, col.Name, predict.CategoricalColumns[i])
		}
		if len(col.Categories) == 0 {
			return nil, crerr.Newf("encoder column %q has no fitted categories", col.Name)
		}
	}
	if len(spec.Numeric) != len(predict.NumericColumns) {
		return nil, crerr.Newf("encoder has %d numeric columns, serving schema has %d",
			len(spec.Numeric), len(predict.NumericColumns))
	}
	for i, name := range spec.Numeric {
		if name != predict.NumericColumns[i] {
			return nil, crerr.Newf("encoder numeric column %d is %q, serving schema expects %q",
				i, name, predict.NumericColumns[i])
		}
	}

	enc := &OneHotEncoder{
		columns: spec.Categorical,
		index:   make([]map[string]int, len(spec.Categorical)),
		offsets: make([]int, len(spec.Categorical)),
	}
	offset := 0
	for i, col := range spec.Categorical {
		enc.offsets[i] = offset
		enc.index[i] = make(map[string]int, len(col.Categories))
		for j, category := range col.Categories {
			enc.index[i][category] = j
		}
		offset += len(col.Categories)
	}
	enc.width = offset + len(spec.Numeric)

	return enc, nil
}

// Width is the length of the encoded vector.
func (e *OneHotEncoder) Width() int {
	return e.width
}

func (e *OneHotEncoder) Transform(record predict.FeatureRecord) ([]float64, error) {
	out := make([]float64, e.width)
	for i, col := range e.columns {
		value, ok := record.CategoricalValue(col.Name)
		if !ok {
			return nil, crerr.Newf("feature record has no categorical column %q", col.Name)
		}
		if slot, known := e.index[i][value]; known {
			out[e.offsets[i]+slot] = 1
		}
	}

	numeric := record.NumericValues()
	copy(out[e.width-len(numeric):], numeric)

	return out, nil
}
