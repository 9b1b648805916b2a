// Package importer reads search result dumps used to populate the store.
//
// A dump is either a JSON array of results or an object with a "results"
// array. Files compressed with zstd are detected by their magic number and
// decompressed transparently, whatever their extension.
package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/log"
)

// ErrEmpty is returned when a dump holds no results.
var ErrEmpty = errors.New("importer: no results in dump")

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var logger = log.ForService("importer")

type envelope struct {
	Results []core.SearchResult `json:"results"`
}

// Load reads and validates the dump at path.
func Load(path string) ([]core.SearchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dump: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnf("closing %s: %v", path, err)
		}
	}()

	results, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Debugf("loaded %d results from %s", len(results), path)
	return results, nil
}

// Decode reads a dump from r, decompressing it when it starts with the zstd
// magic number.
func Decode(r io.Reader) ([]core.SearchResult, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("decompressing dump: %w", err)
	}
	return parse(data)
}

func parse(data []byte) ([]core.SearchResult, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	var results []core.SearchResult
	if data[0] == '{' {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decoding dump: %w", err)
		}
		results = env.Results
	} else if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decoding dump: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrEmpty
	}
	for i := range results {
		if err := normalize(&results[i]); err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
	}
	return results, nil
}

// normalize validates r and canonicalizes its type.
func normalize(r *core.SearchResult) error {
	if r.ID <= 0 {
		return fmt.Errorf("invalid id %d", r.ID)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("id %d: missing name", r.ID)
	}
	if r.UseCount < 0 {
		return fmt.Errorf("id %d: negative use_count", r.ID)
	}
	if r.Type == "" {
		r.Type = core.TypeItem
		return nil
	}
	t, err := core.ParseResultType(string(r.Type))
	if err != nil {
		return fmt.Errorf("id %d: %w", r.ID, err)
	}
	r.Type = t
	return nil
}
