package prompt

import "strings"

// SegmentTypeText is the only segment type the agent emits today.
const SegmentTypeText = "text"

// Segment is one content block of a system prompt.
type Segment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextSegment returns a text segment.
func TextSegment(text string) Segment {
	return Segment{Type: SegmentTypeText, Text: text}
}

// SystemPrompt is either absent or an ordered list of segments.
// The zero value is absent. Values are immutable: every method that
// "changes" a prompt returns a new one and leaves the receiver untouched.
type SystemPrompt struct {
	present  bool
	segments []Segment
}

// Absent returns a prompt with no system message.
func Absent() SystemPrompt { return SystemPrompt{} }

// Present returns a prompt made of the given segments, in order.
// Present() with no segments is still present (an empty system message).
func Present(segments ...Segment) SystemPrompt {
	cp := make([]Segment, len(segments))
	copy(cp, segments)
	return SystemPrompt{present: true, segments: cp}
}

// FromText wraps s as a single text segment. An empty string yields Absent,
// which is how an unset base prompt is represented.
func FromText(s string) SystemPrompt {
	if s == "" {
		return Absent()
	}
	return Present(TextSegment(s))
}

// IsPresent reports whether a system message exists.
func (p SystemPrompt) IsPresent() bool { return p.present }

// Segments returns a copy of the segments; nil when absent.
func (p SystemPrompt) Segments() []Segment {
	if !p.present {
		return nil
	}
	cp := make([]Segment, len(p.segments))
	copy(cp, p.segments)
	return cp
}

// Append returns a present prompt with seg after the existing segments.
func (p SystemPrompt) Append(seg Segment) SystemPrompt {
	segs := make([]Segment, 0, len(p.segments)+1)
	segs = append(segs, p.segments...)
	segs = append(segs, seg)
	return SystemPrompt{present: true, segments: segs}
}

// SegmentSeparator joins segments when a prompt is flattened to one string.
const SegmentSeparator = "\n\n"

// Text flattens the prompt, separating segments with a blank line.
func (p SystemPrompt) Text() string {
	texts := make([]string, len(p.segments))
	for i, s := range p.segments {
		texts[i] = s.Text
	}
	return strings.Join(texts, SegmentSeparator)
}

// Fold dispatches on the two shapes of a SystemPrompt. Both branches are
// required, so callers cannot forget the absent case.
func Fold[T any](p SystemPrompt, absent func() T, present func(segments []Segment) T) T {
	if !p.present {
		return absent()
	}
	return present(p.Segments())
}
