package models

type GlobalConfig struct {
	Backup BackupConfig `toml:"backup" json:"backup"`
}

type BackupConfig struct {
	// Directory is the default backup directory used when the flag is
	// not given.
	Directory string `toml:"directory" json:"directory"`
	// Image overrides the image used for archival job containers.
	Image string `toml:"image" json:"image"`
	// Ignore holds regex patterns always excluded from backups.
	Ignore []string `toml:"ignore" json:"ignore"`
}
