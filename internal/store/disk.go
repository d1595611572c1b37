package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"treeplacer/internal/scatter"
)

const (
	diskOpDelete byte = 0
	diskOpSet    byte = 1

	// op | uuid | payload size
	diskHeaderSize = 1 + 16 + 4
)

type diskRecordMeta struct {
	offset int64
	size   uint32
}

// diskStore is an append-only log of set/delete records. The live index is
// rebuilt by replaying the log on open.
type diskStore struct {
	file    *os.File
	mu      sync.RWMutex
	records map[uuid.UUID]diskRecordMeta
}

// OpenDisk opens or creates the placement log at path.
func OpenDisk(path string) (Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open placement log: %w", err)
	}
	s := &diskStore{
		file:    f,
		records: make(map[uuid.UUID]diskRecordMeta),
	}
	if err := s.loadIndex(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *diskStore) loadIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind placement log: %w", err)
	}

	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("stat placement log: %w", err)
	}

	header := make([]byte, diskHeaderSize)
	var offset int64
	for {
		if _, err := io.ReadFull(s.file, header); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				return fmt.Errorf("truncated placement header: %w", err)
			}
			return fmt.Errorf("read placement header: %w", err)
		}
		op, id, size := decodeHeader(header)
		recordOffset := offset
		offset += int64(len(header)) + int64(size)
		if offset > info.Size() {
			return fmt.Errorf("truncated placement payload at %d: %w", recordOffset, io.ErrUnexpectedEOF)
		}

		if _, err := s.file.Seek(int64(size), io.SeekCurrent); err != nil {
			return fmt.Errorf("seek past payload: %w", err)
		}
		if op == diskOpSet {
			s.records[id] = diskRecordMeta{offset: recordOffset, size: size}
		} else {
			delete(s.records, id)
		}
	}
	return nil
}

func encodeHeader(op byte, id uuid.UUID, size uint32) []byte {
	header := make([]byte, diskHeaderSize)
	header[0] = op
	copy(header[1:17], id[:])
	binary.LittleEndian.PutUint32(header[17:21], size)
	return header
}

func decodeHeader(header []byte) (byte, uuid.UUID, uint32) {
	var id uuid.UUID
	copy(id[:], header[1:17])
	return header[0], id, binary.LittleEndian.Uint32(header[17:21])
}

func (s *diskStore) Load(id uuid.UUID) (scatter.Placement, bool, error) {
	s.mu.RLock()
	meta, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return scatter.Placement{}, false, nil
	}

	payload := make([]byte, meta.size)
	if _, err := s.file.ReadAt(payload, meta.offset+diskHeaderSize); err != nil {
		return scatter.Placement{}, false, fmt.Errorf("read payload at %d: %w", meta.offset, err)
	}
	var placement scatter.Placement
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&placement); err != nil {
		return scatter.Placement{}, false, fmt.Errorf("decode placement %s: %w", id, err)
	}
	return placement, true, nil
}

func (s *diskStore) Save(id uuid.UUID, placement scatter.Placement) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(placement); err != nil {
		return fmt.Errorf("encode placement: %w", err)
	}
	header := encodeHeader(diskOpSet, id, uint32(payload.Len()))

	s.mu.Lock()
	defer s.mu.Unlock()

	offset, err := s.append(header, payload.Bytes())
	if err != nil {
		return err
	}
	s.records[id] = diskRecordMeta{offset: offset, size: uint32(payload.Len())}
	return nil
}

func (s *diskStore) Delete(id uuid.UUID) error {
	header := encodeHeader(diskOpDelete, id, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return nil
	}
	if _, err := s.append(header, nil); err != nil {
		return err
	}
	delete(s.records, id)
	return nil
}

// append writes one record at the end of the log. Callers hold s.mu.
func (s *diskStore) append(header, payload []byte) (int64, error) {
	offset, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek log end: %w", err)
	}
	if _, err := s.file.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	if len(payload) > 0 {
		if _, err := s.file.Write(payload); err != nil {
			return 0, fmt.Errorf("write payload: %w", err)
		}
	}
	if err := s.file.Sync(); err != nil {
		return 0, fmt.Errorf("sync placement log: %w", err)
	}
	return offset, nil
}

// ForEach visits records in log order so iteration is stable across runs.
func (s *diskStore) ForEach(fn func(id uuid.UUID, placement scatter.Placement) bool) error {
	type entry struct {
		id   uuid.UUID
		meta diskRecordMeta
	}
	s.mu.RLock()
	entries := make([]entry, 0, len(s.records))
	for id, meta := range s.records {
		entries = append(entries, entry{id: id, meta: meta})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].meta.offset < entries[j].meta.offset })
	for _, e := range entries {
		placement, ok, err := s.Load(e.id)
		if err != nil {
			log.Printf("placement log load %s: %v", e.id, err)
			continue
		}
		if !ok {
			continue
		}
		if !fn(e.id, placement) {
			break
		}
	}
	return nil
}

func (s *diskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
