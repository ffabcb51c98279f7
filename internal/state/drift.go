package state

import (
	"fmt"
	"sort"
	"strings"
)

// diffConfigs reports field-level differences between the previously
// applied snapshot and the current configuration. Only the fields that
// define the lake layout are compared: region, bucket, database, table
// format, KMS key, the three prefixes, and tags. Crawler, workgroup,
// role, endpoint, and grant settings are deliberately out of scope.
// Output order is fixed so repeated runs produce identical reports.
func diffConfigs(previous, current AppliedConfig) []string {
	var drift []string

	scalars := []struct {
		label    string
		previous string
		current  string
	}{
		{"Region", previous.Region, current.Region},
		{"Bucket name", previous.BucketName, current.BucketName},
		{"Database", previous.GlueDatabase, current.GlueDatabase},
		{"Table format", previous.TableFormat, current.TableFormat},
		{"KMS key", previous.KMSKeyID, current.KMSKeyID},
		{"raw_prefix", previous.RawPrefix, current.RawPrefix},
		{"processed_prefix", previous.ProcessedPrefix, current.ProcessedPrefix},
		{"analytics_prefix", previous.AnalyticsPrefix, current.AnalyticsPrefix},
	}
	for _, s := range scalars {
		if s.previous != s.current {
			drift = append(drift, fmt.Sprintf("%s changed: %s → %s", s.label, s.previous, s.current))
		}
	}

	drift = append(drift, diffTags(previous.Tags, current.Tags)...)
	return drift
}

// diffTags reports at most three entries: keys added, keys removed, and
// keys whose value changed. Keys within each entry are sorted.
func diffTags(previous, current map[string]string) []string {
	var added, removed, changed []string
	for k, after := range current {
		before, ok := previous[k]
		switch {
		case !ok:
			added = append(added, k)
		case before != after:
			changed = append(changed, k)
		}
	}
	for k := range previous {
		if _, ok := current[k]; !ok {
			removed = append(removed, k)
		}
	}

	var drift []string
	for _, group := range []struct {
		label string
		keys  []string
	}{
		{"added", added},
		{"removed", removed},
		{"changed", changed},
	} {
		if len(group.keys) == 0 {
			continue
		}
		sort.Strings(group.keys)
		drift = append(drift, fmt.Sprintf("Tags %s: %s", group.label, strings.Join(group.keys, ", ")))
	}
	return drift
}
