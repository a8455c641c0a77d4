/*
Package exportx implements deterministic CSV export with content
hashing. Every export kind (fixed column order, one row per domain
record) builds a canonical in-memory Table so row order, field
escaping, and the SHA-256 content hash are computed once and shared
instead of re-implemented per template.
*/
package exportx

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"strings"
)

// Table is the canonical shape every export builds: a fixed header row
// plus rows already in their final, deterministic order.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Result is the rendered export: the UTF-8 bytes with a BOM prefix
// (for Excel), and the SHA-256 hex digest of the BOM-less, LF-normalized
// body. Hash is what callers emit as X-Content-Hash.
type Result struct {
	Bytes []byte
	Hash  string
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Render encodes a Table to CSV, computing the content hash over the
// LF-normalized body before prefixing the BOM.
func Render(t Table) (Result, error) {
	var body bytes.Buffer
	w := csv.NewWriter(&body)
	w.UseCRLF = false
	if err := w.Write(t.Columns); err != nil {
		return Result{}, err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return Result{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Result{}, err
	}

	normalized := strings.ReplaceAll(body.String(), "\r\n", "\n")
	sum := sha256.Sum256([]byte(normalized))

	out := make([]byte, 0, len(bom)+len(normalized))
	out = append(out, bom...)
	out = append(out, []byte(normalized)...)

	return Result{Bytes: out, Hash: hex.EncodeToString(sum[:])}, nil
}
