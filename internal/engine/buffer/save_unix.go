//go:build unix

package buffer

import (
	"errors"

	"golang.org/x/sys/unix"
)

// fileMeta captures the destination file's ownership and permissions
// before a save, so they can be restored on the replacement file
// before it takes the original's place.
type fileMeta struct {
	uid, gid uint32
	mode     uint32
}

func statMeta(path string) (fileMeta, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fileMeta{}, false
	}
	return fileMeta{uid: st.Uid, gid: st.Gid, mode: uint32(st.Mode) & 0o7777}, true
}

func (m fileMeta) ownership() (uid, gid, mode uint32) {
	return m.uid, m.gid, m.mode
}

// restoreFileMetadata is best-effort: a failure here does not block
// the save, since the eventual atomic rename is what matters for
// correctness. A bare-root Save that cannot chown simply leaves the
// replacement file owned by the current process.
func restoreFileMetadata(path string, meta fileMeta) {
	_ = unix.Chown(path, int(meta.uid), int(meta.gid))
	_ = unix.Chmod(path, meta.mode)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
