// Package classify loads the trained model artifact and scores feature
// vectors with it.
package classify

import (
	"encoding/json"
	"fmt"
	"os"

	"linkshield/internal/model"
)

// ArtifactVersion is the artifact schema this build understands.
const ArtifactVersion = 1

const modelTypeLogistic = "logistic"

// Artifact is the versioned, serialized model: the feature contract it was
// trained against, the scaler fitted during training, and the coefficients.
type Artifact struct {
	Version      int      `json:"version"`
	Threshold    float64  `json:"threshold"`
	FeatureNames []string `json:"feature_names"`
	Scaler       Scaler   `json:"scaler"`
	Model        Weights  `json:"model"`
}

// Scaler holds the per-feature standardization parameters.
type Scaler struct {
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

// Weights holds the logistic-regression coefficients.
type Weights struct {
	Type    string    `json:"type"`
	Bias    float64   `json:"bias"`
	Weights []float64 `json:"weights"`
}

// LoadArtifact reads and validates a model artifact. Every failure is fatal
// configuration: a half-loaded model must never score traffic.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ConfigurationFatal{Reason: "reading model artifact", Err: err}
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, &model.ConfigurationFatal{Reason: "parsing model artifact", Err: err}
	}
	if err := artifact.validate(); err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (a *Artifact) validate() error {
	fatal := func(format string, args ...any) error {
		return &model.ConfigurationFatal{Reason: fmt.Sprintf(format, args...)}
	}

	if a.Version != ArtifactVersion {
		return fatal("model artifact version %d, this build requires %d", a.Version, ArtifactVersion)
	}
	if a.Model.Type != modelTypeLogistic {
		return fatal("unsupported model type %q", a.Model.Type)
	}
	if a.Threshold <= 0 || a.Threshold >= 1 {
		return fatal("decision threshold %v outside (0,1)", a.Threshold)
	}

	n := len(a.FeatureNames)
	if n == 0 {
		return fatal("model artifact declares no features")
	}
	if len(a.Scaler.Means) != n || len(a.Scaler.Scales) != n {
		return fatal("scaler dimensions %d/%d do not match %d features",
			len(a.Scaler.Means), len(a.Scaler.Scales), n)
	}
	if len(a.Model.Weights) != n {
		return fatal("weight count %d does not match %d features", len(a.Model.Weights), n)
	}
	for i, s := range a.Scaler.Scales {
		if s == 0 {
			return fatal("scaler scale for feature %q is zero", a.FeatureNames[i])
		}
	}

	declared := model.FeatureNames()
	if n != len(declared) {
		return fatal("model artifact trained on %d features, extractor produces %d", n, len(declared))
	}
	for i, name := range a.FeatureNames {
		if name != declared[i] {
			return fatal("feature %d is %q in the artifact but %q in the extractor", i, name, declared[i])
		}
	}

	return nil
}
