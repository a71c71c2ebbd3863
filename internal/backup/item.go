package backup

import (
	"fmt"
	"strings"
	"time"
)

const ArchiveSuffix = ".tar.gz"

// Item is one unit of work in a batch: a volume to archive, or an
// archive to extract. KnownSize feeds the progress total and may be
// zero when the runtime could not report usage.
type Item struct {
	Volume      string
	ArchivePath string
	KnownSize   int64
}

// ArchiveName builds the archive filename for a volume. Restore parses
// exactly this shape, so the two must stay in sync.
func ArchiveName(volume string, date time.Time) string {
	return fmt.Sprintf("%s_%s%s", volume, date.Format("2006-01-02"), ArchiveSuffix)
}

// VolumeFromArchive derives the volume name by stripping the archive
// suffix and the rightmost underscore-delimited segment (the date
// stamp). Volume names containing underscores survive because only the
// last segment is dropped.
func VolumeFromArchive(filename string) (string, error) {
	if !strings.HasSuffix(filename, ArchiveSuffix) {
		return "", fmt.Errorf("%s is not a %s archive", filename, ArchiveSuffix)
	}

	stem := strings.TrimSuffix(filename, ArchiveSuffix)
	idx := strings.LastIndex(stem, "_")
	if idx <= 0 {
		return "", fmt.Errorf("archive name %s has no date suffix", filename)
	}
	return stem[:idx], nil
}
