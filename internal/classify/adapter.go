package classify

import (
	"math"

	"linkshield/internal/model"
)

// Classifier scores feature vectors against a loaded artifact.
type Classifier struct {
	artifact *Artifact
}

// NewClassifier wraps a validated artifact.
func NewClassifier(artifact *Artifact) *Classifier {
	return &Classifier{artifact: artifact}
}

// Threshold returns the decision threshold of the loaded artifact.
func (c *Classifier) Threshold() float64 {
	return c.artifact.Threshold
}

// Score standardizes the vector with the artifact's scaler and applies the
// logistic model. The vector's name order is checked against the artifact on
// every call; a mismatch means the extractor and the model disagree on the
// feature contract, which is fatal, not a per-request failure.
func (c *Classifier) Score(vec model.FeatureVector) (model.ClassifierVerdict, error) {
	a := c.artifact
	if vec.Len() != len(a.FeatureNames) {
		return model.ClassifierVerdict{}, &model.ConfigurationFatal{
			Reason: "feature vector length does not match the model artifact",
		}
	}
	names := vec.Names()
	for i, name := range a.FeatureNames {
		if names[i] != name {
			return model.ClassifierVerdict{}, &model.ConfigurationFatal{
				Reason: "feature vector order does not match the model artifact",
			}
		}
	}

	z := a.Model.Bias
	for i, v := range vec.Values() {
		standardized := (v - a.Scaler.Means[i]) / a.Scaler.Scales[i]
		z += a.Model.Weights[i] * standardized
	}

	return model.ClassifierVerdict{
		Probability: sigmoid(z),
		Threshold:   a.Threshold,
	}, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
