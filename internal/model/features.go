package model

import "fmt"

// FeatureSchemaVersion identifies the feature-name contract below. A model
// artifact trained against a different schema must be rejected at startup.
const FeatureSchemaVersion = 1

// featureNames is the fixed, ordered feature contract the classifier adapter
// depends on. Order and count must match the loaded model artifact exactly.
var featureNames = []string{
	// lexical
	"url_length",
	"domain_length",
	"tld_length",
	"non_alnum_count",
	"url_entropy",
	"letter_digit_ratio",
	"subdomain_depth",
	"is_ip_literal",
	// structural (page-derived)
	"num_images",
	"num_scripts",
	"num_stylesheets",
	"num_self_refs",
	"num_external_refs",
	"is_https",
	"has_obfuscation",
	"has_title",
	"has_description",
	"has_submit",
	"has_social",
	"has_favicon",
	"has_copyright",
	"has_popup",
	"has_iframe",
	"abnormal_url",
	"redirect_none",
	"redirect_present",
	// tld
	"tld_high_risk",
}

// FeatureNames returns a copy of the ordered feature-name contract.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// FeatureCount is the fixed length of a complete feature vector.
func FeatureCount() int { return len(featureNames) }

// FeatureVector is an ordered mapping from the fixed feature-name list to
// numeric values. Construct only through NewFeatureVector so the length
// invariant holds.
type FeatureVector struct {
	names  []string
	values []float64
}

// NewFeatureVector builds a vector over the given name order. The two slices
// must have equal length; the caller keeps no aliases.
func NewFeatureVector(names []string, values []float64) (FeatureVector, error) {
	if len(names) != len(values) {
		return FeatureVector{}, fmt.Errorf("feature vector: %d names but %d values", len(names), len(values))
	}
	return FeatureVector{names: names, values: values}, nil
}

// Names returns the ordered feature names.
func (v FeatureVector) Names() []string { return v.names }

// Values returns the ordered feature values.
func (v FeatureVector) Values() []float64 { return v.values }

// Len returns the number of features in the vector.
func (v FeatureVector) Len() int { return len(v.names) }

// Value returns the value for a named feature.
func (v FeatureVector) Value(name string) (float64, bool) {
	for i, n := range v.names {
		if n == name {
			return v.values[i], true
		}
	}
	return 0, false
}
