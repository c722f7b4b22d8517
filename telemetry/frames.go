package telemetry

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/geosims/outbreak/sim"
)

// FrameLog streams snapshots to a zstd-compressed JSONL file, one
// snapshot per line, so a full run can be replayed or inspected
// without buffering it in memory.
type FrameLog struct {
	file *os.File
	zw   *zstd.Encoder
	bw   *bufio.Writer
	enc  *json.Encoder
}

// CreateFrameLog opens a new frame log at path, truncating any
// existing file.
func CreateFrameLog(path string) (*FrameLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating frame log: %w", err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	bw := bufio.NewWriter(zw)
	return &FrameLog{
		file: f,
		zw:   zw,
		bw:   bw,
		enc:  json.NewEncoder(bw),
	}, nil
}

// Append writes one snapshot.
func (l *FrameLog) Append(s sim.Snapshot) error {
	if err := l.enc.Encode(s); err != nil {
		return fmt.Errorf("encoding snapshot %d: %w", s.Step, err)
	}
	return nil
}

// Close flushes and closes the log. The log is unusable afterwards.
func (l *FrameLog) Close() error {
	if err := l.bw.Flush(); err != nil {
		l.zw.Close()
		l.file.Close()
		return fmt.Errorf("flushing frame log: %w", err)
	}
	if err := l.zw.Close(); err != nil {
		l.file.Close()
		return fmt.Errorf("closing zstd stream: %w", err)
	}
	return l.file.Close()
}

// ReadFrameLog loads every snapshot from a frame log.
func ReadFrameLog(path string) ([]sim.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening frame log: %w", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer zr.Close()

	var snapshots []sim.Snapshot
	dec := json.NewDecoder(zr)
	for {
		var s sim.Snapshot
		if err := dec.Decode(&s); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding snapshot %d: %w", len(snapshots), err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}
