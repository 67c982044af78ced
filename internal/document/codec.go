package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Format identifies a structured file format the codec understands.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DetectFormat reports the structured format for path based on its file
// extension. ok is false for files no codec handles, which callers treat
// as opaque bytes.
func DetectFormat(path string) (Format, bool) {
	switch filepath.Ext(path) {
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	}
	return "", false
}

// FormatError reports content that could not be decoded as its format.
// It covers both syntax errors and syntactically valid content whose
// top-level value is not a mapping.
type FormatError struct {
	Format Format
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s: %v", strings.ToUpper(string(e.Format)), e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

var errTopLevel = errors.New("top-level value is not a mapping")

// Parse decodes data as format. The returned node is always a mapping;
// any failure is reported as a *FormatError.
func Parse(data []byte, format Format) (*Node, error) {
	var (
		n   *Node
		err error
	)
	switch format {
	case FormatJSON:
		n, err = parseJSON(data)
	case FormatTOML:
		n, err = parseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", string(format))
	}
	if err != nil {
		return nil, &FormatError{Format: format, Err: err}
	}
	if n.Kind != KindMapping {
		return nil, &FormatError{Format: format, Err: errTopLevel}
	}
	return n, nil
}

// Serialize encodes n as format. It is total for any tree produced by
// Parse, including trees merged from two parses of the same format.
func Serialize(n *Node, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return serializeJSON(n)
	case FormatTOML:
		return serializeTOML(n)
	}
	return nil, fmt.Errorf("unsupported format %q", string(format))
}

// parseJSON walks the token stream instead of decoding into a map so that
// key order survives. A key repeated within one object keeps its first
// position and its last value.
func parseJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	n, err := decodeValue(dec, tok)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after top-level value")
	}
	return n, nil
}

func decodeValue(dec *json.Decoder, tok json.Token) (*Node, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		return Scalar(tok), nil
	}
	switch delim {
	case '{':
		m := Mapping()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is not a string: %v", keyTok)
			}
			valTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			val, err := decodeValue(dec, valTok)
			if err != nil {
				return nil, err
			}
			m.set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return m, nil
	case '[':
		s := Sequence()
		for dec.More() {
			itemTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			item, err := decodeValue(dec, itemTok)
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim.String())
}

// serializeJSON renders two-space indented JSON with mapping fields in
// node order and no trailing newline.
func serializeJSON(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n *Node, depth int) error {
	switch n.Kind {
	case KindMapping:
		if len(n.Fields) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
			writeIndent(buf, depth+1)
			if err := writeScalarJSON(buf, f.Key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeJSON(buf, f.Value, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('\n')
		writeIndent(buf, depth)
		buf.WriteByte('}')
		return nil
	case KindSequence:
		if len(n.Items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
			writeIndent(buf, depth+1)
			if err := writeJSON(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('\n')
		writeIndent(buf, depth)
		buf.WriteByte(']')
		return nil
	default:
		return writeScalarJSON(buf, n.Value)
	}
}

func writeScalarJSON(buf *bytes.Buffer, v any) error {
	if num, ok := v.(json.Number); ok {
		buf.WriteString(num.String())
		return nil
	}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode always appends a newline; strip it.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

func parseTOML(data []byte) (*Node, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return fromTOMLValue(m), nil
}

// fromTOMLValue converts go-toml's generic decoding into a node tree.
// TOML table order is not observable through the decoder, so keys are
// normalized to lexicographic order.
func fromTOMLValue(v any) *Node {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := Mapping()
		for _, k := range keys {
			n.Fields = append(n.Fields, Field{Key: k, Value: fromTOMLValue(t[k])})
		}
		return n
	case []map[string]any:
		items := make([]*Node, len(t))
		for i, elem := range t {
			items[i] = fromTOMLValue(elem)
		}
		return Sequence(items...)
	case []any:
		items := make([]*Node, len(t))
		for i, elem := range t {
			items[i] = fromTOMLValue(elem)
		}
		return Sequence(items...)
	default:
		return Scalar(v)
	}
}

func serializeTOML(n *Node) ([]byte, error) {
	v := toTOMLValue(n)
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errTopLevel
	}
	return toml.Marshal(m)
}

func toTOMLValue(n *Node) any {
	switch n.Kind {
	case KindMapping:
		m := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			m[f.Key] = toTOMLValue(f.Value)
		}
		return m
	case KindSequence:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = toTOMLValue(item)
		}
		return items
	default:
		return n.Value
	}
}
