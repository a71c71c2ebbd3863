package backup

import "context"

// ProbeSizes queries the aggregate on-disk usage of the named volumes
// in one batched call. Sizes only drive the progress display, so a
// failed probe degrades to zero sizes instead of surfacing an error.
func ProbeSizes(ctx context.Context, rt Runtime, names []string) map[string]int64 {
	sizes := make(map[string]int64, len(names))
	for _, name := range names {
		sizes[name] = 0
	}

	usage, err := rt.DiskUsage(ctx, names)
	if err != nil {
		return sizes
	}

	for _, name := range names {
		if size, ok := usage[name]; ok && size > 0 {
			sizes[name] = size
		}
	}
	return sizes
}
