package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingReporter captures overwrite events for assertions.
type recordingReporter struct {
	keys []string
	old  []string
	new  []string
}

func (r *recordingReporter) KeyOverwritten(key string, old, replacement *Node) {
	r.keys = append(r.keys, key)
	r.old = append(r.old, old.String())
	r.new = append(r.new, replacement.String())
}

func parseJSONDoc(t *testing.T, src string) *Node {
	t.Helper()
	n, err := Parse([]byte(src), FormatJSON)
	require.NoError(t, err)
	return n
}

func TestMerge_DisjointKeysUnion(t *testing.T) {
	base := parseJSONDoc(t, `{"a": 1}`)
	overlay := parseJSONDoc(t, `{"b": 2}`)

	merged := Merge(base, overlay, nil)

	expected := parseJSONDoc(t, `{"a": 1, "b": 2}`)
	assert.True(t, merged.Equal(expected), "got %s", merged)
}

func TestMerge_NestedMappingsRecurse(t *testing.T) {
	base := parseJSONDoc(t, `{"a": 1, "b": {"x": 10}}`)
	overlay := parseJSONDoc(t, `{"b": {"y": 20}, "c": 3}`)

	merged := Merge(base, overlay, nil)

	expected := parseJSONDoc(t, `{"a": 1, "b": {"x": 10, "y": 20}, "c": 3}`)
	assert.True(t, merged.Equal(expected), "got %s", merged)
}

func TestMerge_ScalarConflictOverlayWins(t *testing.T) {
	base := parseJSONDoc(t, `{"model": "small", "keep": true}`)
	overlay := parseJSONDoc(t, `{"model": "large"}`)
	reporter := &recordingReporter{}

	merged := Merge(base, overlay, reporter)

	v, ok := merged.Get("model")
	require.True(t, ok)
	assert.Equal(t, `"large"`, v.String())

	// The overwrite is surfaced with both values.
	require.Len(t, reporter.keys, 1)
	assert.Equal(t, "model", reporter.keys[0])
	assert.Equal(t, `"small"`, reporter.old[0])
	assert.Equal(t, `"large"`, reporter.new[0])
}

func TestMerge_SequencesConcatenateWithoutDedup(t *testing.T) {
	base := parseJSONDoc(t, `{"hooks": ["a", "b"]}`)
	overlay := parseJSONDoc(t, `{"hooks": ["b", "c"]}`)
	reporter := &recordingReporter{}

	merged := Merge(base, overlay, reporter)

	v, ok := merged.Get("hooks")
	require.True(t, ok)
	assert.Equal(t, `["a", "b", "b", "c"]`, v.String())
	assert.Empty(t, reporter.keys, "concatenation is not an overwrite")
}

func TestMerge_MismatchedShapesOverwrite(t *testing.T) {
	base := parseJSONDoc(t, `{"value": [1, 2], "other": {"x": 1}}`)
	overlay := parseJSONDoc(t, `{"value": {"now": "mapping"}, "other": 7}`)
	reporter := &recordingReporter{}

	merged := Merge(base, overlay, reporter)

	expected := parseJSONDoc(t, `{"value": {"now": "mapping"}, "other": 7}`)
	assert.True(t, merged.Equal(expected), "got %s", merged)
	assert.Equal(t, []string{"value", "other"}, reporter.keys)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := parseJSONDoc(t, `{"list": [1], "nested": {"a": 1}, "s": "x"}`)
	overlay := parseJSONDoc(t, `{"list": [2], "nested": {"b": 2}, "s": "y"}`)
	baseBefore := base.String()
	overlayBefore := overlay.String()

	merged := Merge(base, overlay, nil)

	assert.Equal(t, baseBefore, base.String())
	assert.Equal(t, overlayBefore, overlay.String())

	// The result shares no nodes with either input.
	v, ok := merged.Get("nested")
	require.True(t, ok)
	v.set("c", Scalar("poke"))
	assert.Equal(t, baseBefore, base.String())
	assert.Equal(t, overlayBefore, overlay.String())
}

func TestMerge_SameOverlayTwiceGrowsSequences(t *testing.T) {
	base := parseJSONDoc(t, `{"hooks": ["a"]}`)
	overlay := parseJSONDoc(t, `{"hooks": ["x"]}`)

	once := Merge(base, overlay, nil)
	twice := Merge(once, overlay, nil)

	v, ok := twice.Get("hooks")
	require.True(t, ok)
	assert.Equal(t, `["a", "x", "x"]`, v.String())
}

func TestMerge_KeyOrderBaseFirstThenOverlayAdditions(t *testing.T) {
	base := parseJSONDoc(t, `{"z": 1, "a": 2}`)
	overlay := parseJSONDoc(t, `{"a": 3, "m": 4}`)

	merged := Merge(base, overlay, nil)

	var keys []string
	for _, f := range merged.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestMerge_EmptySides(t *testing.T) {
	doc := parseJSONDoc(t, `{"a": 1}`)
	empty := parseJSONDoc(t, `{}`)

	assert.True(t, Merge(doc, empty, nil).Equal(doc))
	assert.True(t, Merge(empty, doc, nil).Equal(doc))
}
