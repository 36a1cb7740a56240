package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

const (
	keyName            = "name"
	keyDependencies    = "dependencies"
	keyDevDependencies = "devDependencies"
)

// Manifest is the bower.json document.
//
// Top-level keys other than name, dependencies and devDependencies are kept
// verbatim so that a read-modify-write cycle never drops them, and every key
// is written back in the order the document had it. A nil mapping means the
// key is absent from the document (or null); an empty mapping is written as {}.
type Manifest struct {
	Name            string
	Dependencies    map[string]string
	DevDependencies map[string]string

	hasName bool
	order   []string
	extra   map[string]json.RawMessage
}

// NewManifest returns a manifest with the given name and empty dependency mappings.
func NewManifest(name string) *Manifest {
	return &Manifest{
		Name:            name,
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
		hasName:         true,
	}
}

// Lookup returns the declared version of name and the mapping holding it.
// Production wins when a name is (illegitimately) present in both mappings.
func (m *Manifest) Lookup(name string) (string, DependencyType, bool) {
	if v, ok := m.Dependencies[name]; ok {
		return v, Production, true
	}
	if v, ok := m.DevDependencies[name]; ok {
		return v, Development, true
	}
	return "", Production, false
}

// Mapping returns the mapping for t, creating it when create is set and it is absent.
func (m *Manifest) Mapping(t DependencyType, create bool) map[string]string {
	if t == Development {
		if m.DevDependencies == nil && create {
			m.DevDependencies = map[string]string{}
		}
		return m.DevDependencies
	}
	if m.Dependencies == nil && create {
		m.Dependencies = map[string]string{}
	}
	return m.Dependencies
}

// Set declares name at version in the mapping for t, creating the mapping if needed.
// An entry for name in the other mapping is left untouched.
func (m *Manifest) Set(t DependencyType, name, version string) {
	m.Mapping(t, true)[name] = version
}

// Remove deletes name from "dependencies" if present there, otherwise from
// "devDependencies". It reports whether an entry was removed.
func (m *Manifest) Remove(name string) bool {
	if _, ok := m.Dependencies[name]; ok {
		delete(m.Dependencies, name)
		return true
	}
	if _, ok := m.DevDependencies[name]; ok {
		delete(m.DevDependencies, name)
		return true
	}
	return false
}

// Snapshot returns a copy of both dependency mappings, defaulting absent ones to empty.
func (m *Manifest) Snapshot() DependencySnapshot {
	return DependencySnapshot{
		Dependencies:    cloneMapping(m.Dependencies),
		DevDependencies: cloneMapping(m.DevDependencies),
	}
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	c := &Manifest{
		Name:    m.Name,
		hasName: m.hasName,
		order:   slices.Clone(m.order),
	}
	if m.Dependencies != nil {
		c.Dependencies = maps.Clone(m.Dependencies)
	}
	if m.DevDependencies != nil {
		c.DevDependencies = maps.Clone(m.DevDependencies)
	}
	if m.extra != nil {
		c.extra = make(map[string]json.RawMessage, len(m.extra))
		for k, v := range m.extra {
			c.extra[k] = slices.Clone(v)
		}
	}
	return c
}

// UnmarshalJSON decodes a manifest, keeping unknown top-level keys and the
// order of all keys. Anything but a JSON object is rejected.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return zerr.With(zerr.New("manifest must be a JSON object"), "found", describeToken(tok))
	}

	decoded := Manifest{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return zerr.With(zerr.Wrap(err, "invalid manifest field"), "field", key)
		}
		if err := decoded.decodeField(key, value); err != nil {
			return zerr.With(zerr.Wrap(err, "invalid manifest field"), "field", key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = decoded
	return nil
}

func (m *Manifest) decodeField(key string, value json.RawMessage) error {
	if !slices.Contains(m.order, key) {
		m.order = append(m.order, key)
	}

	// A repeated key replaces the earlier value.
	delete(m.extra, key)
	switch key {
	case keyName:
		m.Name, m.hasName = "", false
	case keyDependencies:
		m.Dependencies = nil
	case keyDevDependencies:
		m.DevDependencies = nil
	}
	switch {
	case key == keyName && !isNull(value):
		m.hasName = true
		return json.Unmarshal(value, &m.Name)
	case key == keyDependencies && !isNull(value):
		return json.Unmarshal(value, &m.Dependencies)
	case key == keyDevDependencies && !isNull(value):
		return json.Unmarshal(value, &m.DevDependencies)
	}

	if m.extra == nil {
		m.extra = make(map[string]json.RawMessage)
	}
	m.extra[key] = slices.Clone(value)
	return nil
}

// MarshalJSON encodes the manifest in the decoded key order. Keys the
// document did not have are appended as name, dependencies, devDependencies.
//
//nolint:gocritic // value receiver so both Manifest and *Manifest encode the same way
func (m Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	field := func(key string, value any) error {
		encodedKey, err := encodeNoEscape(key)
		if err != nil {
			return err
		}
		encodedValue, err := encodeNoEscape(value)
		if err != nil {
			return zerr.With(err, "field", key)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
		return nil
	}

	keys := slices.Clone(m.order)
	for _, key := range slices.Sorted(maps.Keys(m.extra)) {
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	for _, key := range []string{keyName, keyDependencies, keyDevDependencies} {
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		value, ok := m.fieldValue(key)
		if !ok {
			continue
		}
		if err := field(key, value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// fieldValue returns what key encodes to, or false when key is not written.
func (m *Manifest) fieldValue(key string) (any, bool) {
	switch {
	case key == keyName && (m.hasName || m.Name != ""):
		return m.Name, true
	case key == keyDependencies && m.Dependencies != nil:
		return m.Dependencies, true
	case key == keyDevDependencies && m.DevDependencies != nil:
		return m.DevDependencies, true
	}
	raw, ok := m.extra[key]
	return raw, ok
}

func describeToken(tok json.Token) string {
	switch tok.(type) {
	case nil:
		return "null"
	case json.Delim:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}

// encodeNoEscape encodes v without HTML escaping so ranges such as ">=1.0.0" stay readable.
func encodeNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func cloneMapping(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}
