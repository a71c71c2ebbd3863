package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveName(t *testing.T) {
	date := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "app_db_2024-01-15.tar.gz", ArchiveName("app_db", date))
}

func TestVolumeFromArchive_RoundTrip(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	// underscores inside the volume name survive the rightmost split
	for _, name := range []string{"appdb", "app_db", "my_app_data", "a"} {
		volume, err := VolumeFromArchive(ArchiveName(name, date))
		require.NoError(t, err, name)
		assert.Equal(t, name, volume)
	}
}

func TestVolumeFromArchive_Malformed(t *testing.T) {
	cases := []string{
		"plain.tar.gz",           // no date suffix
		"_2024-01-15.tar.gz",     // empty volume name
		"app_db_2024-01-15.zip",  // wrong extension
		"app_db_2024-01-15.tar",  // missing compression suffix
	}
	for _, filename := range cases {
		_, err := VolumeFromArchive(filename)
		assert.Error(t, err, filename)
	}
}
