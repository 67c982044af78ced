package document

// Reporter receives diagnostic events emitted while merging. Merge calls
// it synchronously from a single goroutine.
type Reporter interface {
	// KeyOverwritten fires when overlay replaces base's value for key
	// outright because the two values cannot be combined structurally.
	KeyOverwritten(key string, old, replacement *Node)
}

// Discard drops every merge event.
var Discard Reporter = discardReporter{}

type discardReporter struct{}

func (discardReporter) KeyOverwritten(string, *Node, *Node) {}

// Merge combines two mapping nodes with overlay taking precedence and
// returns a new tree sharing no state with either input.
//
// For each key of overlay, in overlay order:
//   - key absent from base: overlay's value is added
//   - both values are mappings: merged recursively under the same rules
//   - both values are sequences: base's elements followed by overlay's,
//     with no deduplication
//   - anything else: overlay's value replaces base's and r is notified
//
// Keys only in base keep their base order; keys new in overlay are
// appended after them. Because sequences concatenate, applying the same
// overlay twice grows sequence-valued keys twice.
func Merge(base, overlay *Node, r Reporter) *Node {
	if r == nil {
		r = Discard
	}
	result := base.Clone()
	mergeInto(result, overlay, r)
	return result
}

func mergeInto(dst, overlay *Node, r Reporter) {
	for _, f := range overlay.Fields {
		existing, ok := dst.Get(f.Key)
		if !ok {
			dst.set(f.Key, f.Value.Clone())
			continue
		}
		switch {
		case existing.Kind == KindMapping && f.Value.Kind == KindMapping:
			mergeInto(existing, f.Value, r)
		case existing.Kind == KindSequence && f.Value.Kind == KindSequence:
			for _, item := range f.Value.Items {
				existing.Items = append(existing.Items, item.Clone())
			}
		default:
			r.KeyOverwritten(f.Key, existing, f.Value)
			dst.set(f.Key, f.Value.Clone())
		}
	}
}
