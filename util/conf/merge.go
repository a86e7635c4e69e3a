package conf

// DefaultConfig maps flattened config keys to their default values.
type DefaultConfig map[string]any

// MergeDefaults merges maps into a single map, prefixing every key with ns.
func MergeDefaults[M ~map[string]V, V any](ns string, maps ...M) M {
	fullCap := 0
	for _, m := range maps {
		fullCap += len(m)
	}

	merged := make(M, fullCap)
	for _, m := range maps {
		for key, val := range m {
			if ns == "" {
				merged[key] = val
				continue
			}
			merged[ns+"."+key] = val
		}
	}

	return merged
}
