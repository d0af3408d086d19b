// Package model loads trained gradient-boosted tree artifacts and runs
// inference over feature frames.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/dmitryikh/leaves"

	"github.com/jugesdebnath7/powercast/internal/frame"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// Predictor scores feature frames. Implementations must document the
// feature order they expect.
type Predictor interface {
	// FeatureNames returns the model's input columns in scoring order.
	FeatureNames() []string
	// Predict scores one value per row. The frame must contain every
	// feature column; rows with missing values score NaN inputs.
	Predict(f *frame.Frame) ([]float64, error)
}

// XGBPredictor wraps a leaves ensemble loaded from an XGBoost model
// file plus its feature-name sidecar.
type XGBPredictor struct {
	ensemble *leaves.Ensemble
	features []string
	version  string
}

// Load reads model_<version>.model and its model_<version>_features.json
// sidecar from dir.
func Load(dir, version string, log *logger.Logger) (*XGBPredictor, error) {
	modelPath := filepath.Join(dir, fmt.Sprintf("model_%s.model", version))
	ensemble, err := leaves.XGEnsembleFromFile(modelPath, false)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", modelPath, err)
	}

	featurePath := filepath.Join(dir, fmt.Sprintf("model_%s_features.json", version))
	raw, err := os.ReadFile(featurePath)
	if err != nil {
		return nil, fmt.Errorf("read feature list %s: %w", featurePath, err)
	}
	var features []string
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, fmt.Errorf("parse feature list %s: %w", featurePath, err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("feature list %s is empty", featurePath)
	}
	if n := ensemble.NFeatures(); len(features) < n {
		return nil, fmt.Errorf("model expects %d features, sidecar lists %d", n, len(features))
	}

	log.WithFields(map[string]interface{}{
		"version":  version,
		"features": len(features),
		"trees":    ensemble.NEstimators(),
	}).Info("Model loaded")

	return &XGBPredictor{
		ensemble: ensemble,
		features: features,
		version:  version,
	}, nil
}

// FeatureNames returns the model's input columns in scoring order.
func (p *XGBPredictor) FeatureNames() []string {
	out := make([]string, len(p.features))
	copy(out, p.features)
	return out
}

// Version returns the artifact version the predictor was loaded from.
func (p *XGBPredictor) Version() string {
	return p.version
}

// Predict scores every row of f. Missing feature values are fed to the
// ensemble as NaN, which XGBoost routes along each tree's default path.
func (p *XGBPredictor) Predict(f *frame.Frame) ([]float64, error) {
	cols := make([]*frame.Series, len(p.features))
	for i, name := range p.features {
		s, err := f.Column(name)
		if err != nil {
			return nil, fmt.Errorf("feature column %q: %w", name, err)
		}
		cols[i] = s
	}

	out := make([]float64, f.Len())
	row := make([]float64, len(cols))
	for i := 0; i < f.Len(); i++ {
		for j, s := range cols {
			v, ok := s.Number(i)
			if !ok {
				v = math.NaN()
			}
			row[j] = v
		}
		out[i] = p.ensemble.PredictSingle(row, 0)
	}
	return out, nil
}
