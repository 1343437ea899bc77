package assistant

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// An extractor pulls a human-readable reply out of one plausible response
// shape. Extractors are pure and tried in a fixed priority order; the first
// present, non-blank candidate wins. Keeping the priority policy as data
// makes it testable in isolation from transport code.
type extractor struct {
	name string
	fn   func(body gjson.Result) (string, bool)
}

// pathExtractor reads a single gjson path.
func pathExtractor(path string) func(gjson.Result) (string, bool) {
	return func(body gjson.Result) (string, bool) {
		return candidate(body.Get(path))
	}
}

// candidate accepts scalar values only; objects and arrays are not replies.
func candidate(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		s := r.String()
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

// replyExtractors is the fixed priority list of known response shapes.
var replyExtractors = []extractor{
	{"reply", pathExtractor("reply")},
	{"answer", pathExtractor("answer")},
	{"text", pathExtractor("text")},
	{"message", pathExtractor("message")},
	{"message.content", pathExtractor("message.content")},
	{"data.answer", pathExtractor("data.answer")},
	{"data.text", pathExtractor("data.text")},
	{"choices.0.text", pathExtractor("choices.0.text")},
	{"choices.0.message.content", pathExtractor("choices.0.message.content")},
	{"root string", func(body gjson.Result) (string, bool) {
		return candidate(body)
	}},
}

// ExtractReply pulls the reply out of a parsed chat response body. When no
// shape matches it returns a diagnostic message listing the body's key names
// plus the full encoded payload, so the failure is diagnosable rather than a
// dead-end chat UI. The second return reports whether a known shape matched.
func ExtractReply(raw []byte) (string, bool) {
	body := gjson.ParseBytes(raw)

	for _, ex := range replyExtractors {
		if reply, ok := ex.fn(body); ok {
			return reply, true
		}
	}

	var keys string
	if body.IsArray() {
		keys = fmt.Sprintf("[array of length %d]", len(body.Array()))
	} else {
		var names []string
		body.ForEach(func(key, _ gjson.Result) bool {
			names = append(names, key.String())
			return true
		})
		keys = strings.Join(names, ", ")
	}

	return fmt.Sprintf("Server JSON received but no reply field found. Keys: %s. Full JSON: %s",
		keys, body.Raw), false
}
