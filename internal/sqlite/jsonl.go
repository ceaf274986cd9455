package sqlite

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

// ExportRunsJSONL writes runs to path, one JSON object per line. The file is
// replaced atomically: runs are encoded into a sibling temp file that is
// synced and renamed over path only when every run was written.
func ExportRunsJSONL(path string, runs []types.Run) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".runs-*.jsonl")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range runs {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode run %s: %w", r.RunID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadRunsJSONL reads runs written by ExportRunsJSONL. Blank lines are
// ignored. Lines that are not a run object are skipped and counted: malformed
// JSON, unknown fields, a missing run_id, or neither cube_name nor output.
func ReadRunsJSONL(path string) (runs []types.Run, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		r, ok := decodeRun(line)
		if !ok {
			skipped++
			continue
		}
		runs = append(runs, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return runs, skipped, nil
}

func decodeRun(line []byte) (types.Run, bool) {
	var r types.Run
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return types.Run{}, false
	}
	if dec.More() {
		return types.Run{}, false
	}
	if r.RunID == "" || (r.CubeName == "" && r.Output == "") {
		return types.Run{}, false
	}
	return r, true
}
