//go:build !unix

package handlepool

import "github.com/hupe1980/repocache/internal/fs"

func adviseRandom(fs.File) {}
