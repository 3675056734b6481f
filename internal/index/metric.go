package index

import (
	"fmt"
	"math"
)

// Metric is the distance metric an index is built with. It is fixed for the
// life of a persisted index; a snapshot recorded under one metric cannot be
// opened under another.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// ParseMetric validates a metric name from configuration.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricCosine, MetricEuclidean:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown distance metric %q", s)
}

// score returns a comparable relevance value where higher means closer to
// the query: cosine similarity directly, negated distance for euclidean.
func (m Metric) score(a, b []float32) float64 {
	switch m {
	case MetricEuclidean:
		var sum float64
		for i := range a {
			d := float64(a[i]) - float64(b[i])
			sum += d * d
		}
		return -math.Sqrt(sum)
	default:
		return cosineSimilarity(a, b)
	}
}

// cosineSimilarity returns a value between -1 and 1, where 1 means
// identical direction. Mismatched lengths score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
