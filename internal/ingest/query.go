package ingest

import "math/rand/v2"

// Topics is the static rotation of search terms used when no explicit query
// is given for an ingestion run.
var Topics = []string{
	"technology",
	"politics",
	"sports",
	"health",
	"business",
	"science",
	"entertainment",
	"environment",
	"education",
	"world",
}

// SelectQuery returns the search term for one provider fetch. An explicit
// override wins; otherwise a topic is drawn uniformly at random, re-rolled
// independently per invocation.
func SelectQuery(override string) string {
	if override != "" {
		return override
	}
	return Topics[rand.IntN(len(Topics))]
}
