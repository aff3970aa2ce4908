// Package meta holds the free-form key/value notes users attach to transactions.
package meta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Metadata is a small string map with validation and stable JSON encoding.
type Metadata map[string]string

const (
	MaxPairs     = 20
	MaxKeyLen    = 64
	MaxValLen    = 512
	MaxTotalJSON = 8192
)

// New copies m; a nil map yields an empty Metadata.
func New(m map[string]string) Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (m Metadata) Clone() Metadata { return New(m) }

func (m Metadata) Validate() error {
	if len(m) > MaxPairs {
		return fmt.Errorf("metadata has %d pairs, max %d", len(m), MaxPairs)
	}
	for k, v := range m {
		if k == "" || len(k) > MaxKeyLen {
			return fmt.Errorf("metadata key %q empty or too long", k)
		}
		if len(v) > MaxValLen {
			return fmt.Errorf("metadata value for %q too long", k)
		}
	}
	b, err := m.MarshalStableJSON()
	if err != nil {
		return err
	}
	if len(b) > MaxTotalJSON {
		return fmt.Errorf("metadata exceeds %d bytes", MaxTotalJSON)
	}
	return nil
}

// MarshalStableJSON encodes m with sorted keys.
func (m Metadata) MarshalStableJSON() ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(m[k])
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m Metadata) MarshalJSON() ([]byte, error) { return m.MarshalStableJSON() }

func (m *Metadata) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = Metadata{}
		return nil
	}
	var tmp map[string]string
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*m = New(tmp)
	return nil
}

// Parse decodes a stored column value. Empty input yields empty Metadata.
func Parse(b []byte) (Metadata, error) {
	var m Metadata
	if err := m.UnmarshalJSON(b); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return m, nil
}
