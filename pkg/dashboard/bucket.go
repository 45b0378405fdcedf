package dashboard

import "math"

type bucket struct {
	key string

	min float64
	max float64
}

// Fixed duration buckets: each non-nil duration falls into exactly one.
var buckets = []bucket{
	{key: "0-5", min: 0, max: 5},
	{key: "5-10", min: 5, max: 10},
	{key: "10-30", min: 10, max: 30},
	{key: "30-60", min: 30, max: 60},
	{key: "60-300", min: 60, max: 300},
	{key: "300+", min: 300, max: math.Inf(1)},
}

// Buckets returns the filterable bucket keys in ascending order.
func Buckets() []string {
	keys := make([]string, 0, len(buckets))

	for _, b := range buckets {
		keys = append(keys, b.key)
	}

	return keys
}

// Bucket returns the key of the bucket containing the duration.
func Bucket(duration float64) string {
	for _, b := range buckets {
		if duration >= b.min && duration < b.max {
			return b.key
		}
	}

	return buckets[0].key
}

// matchBucket reports whether a record duration satisfies the bucket filter.
// Unknown durations pass vacuously, as do unrecognized bucket keys.
func matchBucket(key string, duration *float64) bool {
	if duration == nil {
		return true
	}

	for _, b := range buckets {
		if b.key != key {
			continue
		}

		return *duration >= b.min && *duration < b.max
	}

	return true
}
