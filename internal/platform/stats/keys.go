package stats

// --- Redis Keys ---
// These keys are used for the read-through cache of the stats snapshot.
const (
	// BasicStatsCacheKey is a Redis String holding the JSON-serialized
	// basic stats response (counts + humanized last_updated).
	BasicStatsCacheKey = "stats:basic"
)
