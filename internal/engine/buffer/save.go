package buffer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// PrivilegedSaveRequired is returned by Save/SaveToFile when the final
// atomic rename fails with a permission error the current process
// cannot resolve on its own (e.g. the destination is owned by
// another user). It carries everything an out-of-process privileged
// helper needs to finish the save in a single operation: the
// already-written temp file, the destination, and the destination's
// original ownership/permissions to restore after the privileged
// rename.
type PrivilegedSaveRequired struct {
	TempPath string
	DestPath string
	UID, GID uint32
	Mode     uint32
}

func (e *PrivilegedSaveRequired) Error() string {
	return fmt.Sprintf("permission denied saving to %s; complete the rename of %s with elevated privileges", e.DestPath, e.TempPath)
}

const streamChunkSize = 64 << 10

// Save writes the buffer back to its associated path. Returns
// ErrNoPath if the buffer has none.
func (b *Buffer) Save() error {
	b.mu.RLock()
	path := b.path
	b.mu.RUnlock()
	if path == "" {
		return ErrNoPath
	}
	return b.SaveToFile(path)
}

// SaveToFile writes the buffer to path using an incremental save:
// unmodified regions still backed by an Unloaded span stream straight
// from the source file rather than round-tripping through memory, and
// only pieces that were actually edited come from the span registry.
// The write lands via a temp file in the destination's directory
// (falling back to the OS temp directory) and an atomic rename;
// cross-device renames recover via copy-then-unlink, and a
// permission-denied rename returns *PrivilegedSaveRequired instead of
// failing outright.
func (b *Buffer) SaveToFile(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	originalMeta, hadOriginal := statMeta(path)

	needsConversion := b.lineEnding != b.originalLineEnding
	target := b.lineEnding

	tempPath, out, err := createTempFile(path)
	if err != nil {
		return err
	}
	closeTemp := true
	defer func() {
		if closeTemp {
			out.Close()
		}
	}()

	w := bufio.NewWriterSize(out, streamChunkSize)
	var sourceCache struct {
		path string
		f    *os.File
	}
	defer func() {
		if sourceCache.f != nil {
			sourceCache.f.Close()
		}
	}()

	total := b.tree.TotalBytes()
	for pv := range b.tree.IterPiecesInRange(0, total) {
		spanRec, err := b.registry.Span(pv.SpanID)
		if err != nil {
			return fmt.Errorf("buffer: save: %w", err)
		}

		if data, ok := b.registry.Get(pv.SpanID); ok {
			chunk := data[pv.SpanOffset : pv.SpanOffset+pv.Length]
			if err := writeConverted(w, chunk, needsConversion, target); err != nil {
				return err
			}
			continue
		}

		// Unloaded: stream directly from its backing file.
		if sourceCache.f == nil || sourceCache.path != spanRec.Path() {
			if sourceCache.f != nil {
				sourceCache.f.Close()
			}
			f, err := os.Open(spanRec.Path())
			if err != nil {
				return err
			}
			sourceCache.f, sourceCache.path = f, spanRec.Path()
		}
		if err := streamUnloadedPiece(w, sourceCache.f, spanRec.FileOffset()+pv.SpanOffset, pv.Length, needsConversion, target); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}
	out.Close()
	closeTemp = false

	if hadOriginal {
		restoreFileMetadata(tempPath, originalMeta)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return b.recoverFromRenameFailure(err, tempPath, path, originalMeta, hadOriginal)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	b.savedFileSize, b.haveSavedFileSize = info.Size(), true
	b.path = path
	b.markSavedSnapshotLocked()
	b.originalLineEnding = b.lineEnding
	return nil
}

// FinalizeExternalSave updates the buffer's saved-state bookkeeping
// after an out-of-process privileged helper has completed a rename
// requested via a PrivilegedSaveRequired error.
func (b *Buffer) FinalizeExternalSave(destPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	info, err := os.Stat(destPath)
	if err != nil {
		return err
	}
	b.savedFileSize, b.haveSavedFileSize = info.Size(), true
	b.path = destPath
	b.markSavedSnapshotLocked()
	b.originalLineEnding = b.lineEnding
	return nil
}

func writeConverted(w io.Writer, chunk []byte, convert bool, target LineEnding) error {
	if !convert {
		_, err := w.Write(chunk)
		return err
	}
	_, err := w.Write(convertLineEndings(chunk, target))
	return err
}

func streamUnloadedPiece(w io.Writer, f *os.File, offset, length int64, convert bool, target LineEnding) error {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, streamChunkSize)
	remaining := length
	for remaining > 0 {
		toRead := int64(len(buf))
		if remaining < toRead {
			toRead = remaining
		}
		if _, err := io.ReadFull(f, buf[:toRead]); err != nil {
			return err
		}
		if err := writeConverted(w, buf[:toRead], convert, target); err != nil {
			return err
		}
		remaining -= toRead
	}
	return nil
}

// convertLineEndings rewrites chunk (already normalized to bare \n
// internally) into target's on-disk representation. Buffers opened
// from disk keep their original bytes verbatim (see Open), so this
// only fires for content typed after a SetLineEnding call changed the
// target away from what was loaded.
func convertLineEndings(chunk []byte, target LineEnding) []byte {
	if target == LineEndingLF {
		return chunk
	}
	seq := []byte(target.Sequence())
	out := make([]byte, 0, len(chunk)+len(chunk)/8)
	for _, c := range chunk {
		if c == '\n' {
			out = append(out, seq...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

func createTempFile(destPath string) (string, *os.File, error) {
	sameDir := destPath + ".tmp"
	if f, err := os.Create(sameDir); err == nil {
		return sameDir, f, nil
	} else if !os.IsPermission(err) {
		return "", nil, err
	}

	dir := os.TempDir()
	name := filepath.Base(destPath)
	tempPath := filepath.Join(dir, fmt.Sprintf("%s-%d-%d.tmp", name, os.Getpid(), time.Now().UnixNano()))
	f, err := os.Create(tempPath)
	if err != nil {
		return "", nil, err
	}
	return tempPath, f, nil
}

func (b *Buffer) recoverFromRenameFailure(renameErr error, tempPath, destPath string, meta fileMeta, hadMeta bool) error {
	if isCrossDevice(renameErr) {
		if err := copyFile(tempPath, destPath); err != nil {
			if os.IsPermission(err) {
				return b.makePrivilegedError(tempPath, destPath, meta, hadMeta)
			}
			return err
		}
		os.Remove(tempPath)
		return nil
	}
	if os.IsPermission(renameErr) {
		return b.makePrivilegedError(tempPath, destPath, meta, hadMeta)
	}
	return renameErr
}

func (b *Buffer) makePrivilegedError(tempPath, destPath string, meta fileMeta, hadMeta bool) error {
	err := &PrivilegedSaveRequired{TempPath: tempPath, DestPath: destPath}
	if hadMeta {
		err.UID, err.GID, err.Mode = meta.ownership()
	}
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
