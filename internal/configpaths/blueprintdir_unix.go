//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// BlueprintDir returns the directory ximapperd searches for standalone
// blueprint override files. On Unix, root-run daemons use /etc/ximapperd
// so a system-wide layout set can be shared across users.
func BlueprintDir() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join(string(os.PathSeparator), "etc", "ximapperd"), nil
	}
	return DefaultConfigDir()
}
