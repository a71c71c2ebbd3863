package backup

import (
	"errors"
	"fmt"
)

// ConfigError is a precondition failure detected before any job runs.
// It aborts the whole batch.
type ConfigError struct {
	msg string
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string { return e.msg }

func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// JobError is a single item's failure. The batch keeps going past it.
type JobError struct {
	Volume   string
	ExitCode int64 // -1 when the job never reported an exit status
	Err      error
}

func (e *JobError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("job for volume %s failed: %v", e.Volume, e.Err)
	}
	return fmt.Sprintf("job for volume %s exited with code %d", e.Volume, e.ExitCode)
}

func (e *JobError) Unwrap() error { return e.Err }
