//go:build unix

package handlepool

import (
	"golang.org/x/sys/unix"

	"github.com/hupe1980/repocache/internal/fs"
)

// adviseRandom hints the kernel that reads on this handle will be random,
// which suppresses readahead on the revision-file access pattern. The hint
// is advisory; failures are ignored.
func adviseRandom(f fs.File) {
	fd, ok := f.(interface{ Fd() uintptr })
	if !ok {
		return
	}
	_ = unix.Fadvise(int(fd.Fd()), 0, 0, unix.FADV_RANDOM)
}
