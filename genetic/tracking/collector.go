package tracking

import "math"

// Trace implements Collector and keeps every generation's bundle in order
type Trace struct {
	records []MetricBundle
	sums    map[string]float64
	counts  map[string]int
	mins    map[string]float64
	maxs    map[string]float64
}

// NewTrace creates an empty trace
func NewTrace() *Trace {
	return &Trace{
		sums:   make(map[string]float64),
		counts: make(map[string]int),
		mins:   make(map[string]float64),
		maxs:   make(map[string]float64),
	}
}

// Collect appends a copy of metrics. NaN values are kept in the series
// but excluded from the aggregates.
func (c *Trace) Collect(metrics MetricBundle) {
	c.records = append(c.records, metrics.Clone())

	for key, value := range metrics {
		if math.IsNaN(value) {
			continue
		}
		c.sums[key] += value
		if c.counts[key] == 0 || value < c.mins[key] {
			c.mins[key] = value
		}
		if c.counts[key] == 0 || value > c.maxs[key] {
			c.maxs[key] = value
		}
		c.counts[key]++
	}
}

// Finalize returns avg_, min_ and max_ aggregates per key plus the generation count
func (c *Trace) Finalize() MetricBundle {
	result := make(MetricBundle)
	result["generations"] = float64(len(c.records))

	for key, sum := range c.sums {
		if count := c.counts[key]; count > 0 {
			result["avg_"+key] = sum / float64(count)
		}
	}
	for key, val := range c.mins {
		result["min_"+key] = val
	}
	for key, val := range c.maxs {
		result["max_"+key] = val
	}
	return result
}

// Reset clears the trace
func (c *Trace) Reset() {
	c.records = c.records[:0]
	clear(c.sums)
	clear(c.counts)
	clear(c.mins)
	clear(c.maxs)
}

// Len returns the number of collected generations
func (c *Trace) Len() int {
	return len(c.records)
}

// Series returns the values of key across generations, NaN where absent
func (c *Trace) Series(key string) []float64 {
	out := make([]float64, len(c.records))
	for i, r := range c.records {
		out[i] = r.Get(key, math.NaN())
	}
	return out
}

// Last returns the most recent bundle, nil when empty
func (c *Trace) Last() MetricBundle {
	if len(c.records) == 0 {
		return nil
	}
	return c.records[len(c.records)-1]
}
