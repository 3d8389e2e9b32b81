// Package filestore implements a crash-safe StateStorePort backed by an
// append-only file, grounded on the teacher's FileWAL: the same
// length-prefixed record framing, the same truncate-on-corrupt-tail
// bootstrap, and a single mutex serializing writes per process.
package filestore

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"blesync/internal/domain"
	"blesync/internal/ports"
)

const recordHeaderLen = 4

// record is the JSON-encoded body written for each snapshot. The file
// format is deliberately simple — this is §6.1's storage-port concern,
// not a general-purpose database.
type record struct {
	DeviceId           domain.DeviceId    `json:"deviceId"`
	LastAckedExclusive domain.EventOffset `json:"lastAckedExclusive"`
	PageSize           domain.PageSize    `json:"pageSize"`
	SagaCursor         string             `json:"sagaCursor"`
}

// FileStore is a StateStorePort backed by one append-only file per
// process. The latest record for each device is kept in memory, scanned
// from disk once at open, so Read never touches the filesystem on the hot
// path and Write only ever appends.
type FileStore struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	writer  *bufio.Writer
	latest  map[domain.DeviceId]record
}

// NewFileStore opens (creating if necessary) the snapshot file under dir.
// On open it scans any existing records, truncating a corrupted trailing
// record exactly the way FileWAL does, so that a write interrupted by a
// crash is treated as if it never happened.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "snapshots.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	fs := &FileStore{
		path:   path,
		file:   f,
		writer: bufio.NewWriterSize(f, 1<<16),
		latest: make(map[domain.DeviceId]record),
	}
	if err := fs.bootstrap(); err != nil {
		f.Close()
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) bootstrap() error {
	stat, err := os.Stat(fs.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err != nil || stat.Size() == 0 {
		return nil
	}

	rf, err := os.Open(fs.path)
	if err != nil {
		return err
	}
	defer rf.Close()

	reader := bufio.NewReader(rf)
	var offset int64

	for {
		var hdr [recordHeaderLen]byte
		if _, err := io.ReadFull(reader, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("filestore scan header: %w", err)
		}
		length := binary.LittleEndian.Uint32(hdr[:])
		offset += recordHeaderLen

		body := make([]byte, length)
		if _, err := io.ReadFull(reader, body); err != nil {
			// A partial trailing body means a crash mid-write; stop here
			// and truncate, leaving the rest of the file as if this write
			// never happened (§6.1: "corrupted reads are absent").
			break
		}
		offset += int64(length)

		var rec record
		if err := json.Unmarshal(body, &rec); err != nil {
			break
		}
		fs.latest[rec.DeviceId] = rec
	}

	return fs.file.Truncate(offset)
}

// Read returns the latest snapshot for dev, or ok=false if none exists.
// Per the port contract, a corrupted trailing record was already dropped
// during bootstrap, so Read itself never returns a format error.
func (fs *FileStore) Read(dev domain.DeviceId) (domain.SyncSnapshot, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	rec, ok := fs.latest[dev]
	if !ok {
		return domain.SyncSnapshot{}, false, nil
	}
	return domain.SyncSnapshot{
		DeviceId:           rec.DeviceId,
		LastAckedExclusive: rec.LastAckedExclusive,
		PageSize:           rec.PageSize,
		SagaCursor:         rec.SagaCursor,
	}, true, nil
}

// Write appends a new record for the snapshot's device and flushes it,
// then updates the in-memory index. Multiple actors in one process share
// the single file-store mutex, matching the concurrency model's
// "serializes writes per process" requirement.
func (fs *FileStore) Write(snapshot domain.SyncSnapshot) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	rec := record{
		DeviceId:           snapshot.DeviceId,
		LastAckedExclusive: snapshot.LastAckedExclusive,
		PageSize:           snapshot.PageSize,
		SagaCursor:         snapshot.SagaCursor,
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	var hdr [recordHeaderLen]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(body)))

	if _, err := fs.writer.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := fs.writer.Write(body); err != nil {
		return err
	}
	if err := fs.writer.Flush(); err != nil {
		return err
	}
	if err := fs.file.Sync(); err != nil {
		return err
	}

	fs.latest[rec.DeviceId] = rec
	return nil
}

// Close flushes and closes the underlying file.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.writer.Flush(); err != nil {
		return err
	}
	return fs.file.Close()
}

var _ ports.StateStorePort = (*FileStore)(nil)
