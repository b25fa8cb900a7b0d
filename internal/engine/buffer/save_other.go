//go:build !unix

package buffer

import "os"

// fileMeta is a no-op placeholder on non-Unix platforms: there is no
// portable uid/gid/mode to preserve, so a save there always leaves
// ownership to the OS default and never reports PrivilegedSaveRequired
// for ownership reasons.
type fileMeta struct{}

func statMeta(path string) (fileMeta, bool) {
	_, err := os.Stat(path)
	return fileMeta{}, err == nil
}

func restoreFileMetadata(path string, meta fileMeta) {}

func (m fileMeta) ownership() (uid, gid, mode uint32) { return 0, 0, 0 }

func isCrossDevice(err error) bool { return false }
