package tracking

// MetricBundle is a generic container for named metrics
// Keys are metric names, values are float64 measurements
type MetricBundle map[string]float64

// Standard metric keys for one generation
const (
	MetricGeneration  = "generation"
	MetricBestFitness = "best_fitness"
	MetricMeanFitness = "mean_fitness"
	MetricStdDev      = "stddev_fitness"
	MetricHeat        = "heat"
)

// Get returns metric value or default if not present
func (b MetricBundle) Get(key string, defaultVal float64) float64 {
	if v, ok := b[key]; ok {
		return v
	}
	return defaultVal
}

// Clone creates a deep copy
func (b MetricBundle) Clone() MetricBundle {
	result := make(MetricBundle, len(b))
	for k, v := range b {
		result[k] = v
	}
	return result
}

// Collector accumulates per-generation metrics over a run
type Collector interface {
	// Collect records the metrics of one generation
	Collect(metrics MetricBundle)

	// Finalize returns aggregated metrics
	Finalize() MetricBundle

	// Reset clears accumulated state for reuse
	Reset()
}
