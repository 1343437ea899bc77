package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReply_KnownShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"reply field", `{"reply":"hello"}`, "hello"},
		{"answer field", `{"answer":"hi there"}`, "hi there"},
		{"text field", `{"text":"plain"}`, "plain"},
		{"message string", `{"message":"direct"}`, "direct"},
		{"message content", `{"message":{"content":"nested"}}`, "nested"},
		{"data answer", `{"data":{"answer":"deep"}}`, "deep"},
		{"data text", `{"data":{"text":"deeper"}}`, "deeper"},
		{"choices text", `{"choices":[{"text":"completion"}]}`, "completion"},
		{"choices message content", `{"choices":[{"message":{"content":"hello"}}]}`, "hello"},
		{"root string", `"bare string"`, "bare string"},
		{"numeric reply", `{"reply":42}`, "42"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, matched := ExtractReply([]byte(tt.body))
			assert.True(t, matched)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractReply_PriorityOrder(t *testing.T) {
	t.Parallel()

	// reply outranks answer outranks choices
	got, matched := ExtractReply([]byte(`{"answer":"second","reply":"first","choices":[{"text":"third"}]}`))
	assert.True(t, matched)
	assert.Equal(t, "first", got)
}

func TestExtractReply_BlankCandidatesSkipped(t *testing.T) {
	t.Parallel()

	got, matched := ExtractReply([]byte(`{"reply":"   ","answer":"fallback"}`))
	assert.True(t, matched)
	assert.Equal(t, "fallback", got)
}

func TestExtractReply_NoMatchDiagnostic(t *testing.T) {
	t.Parallel()

	got, matched := ExtractReply([]byte(`{"foo":"bar"}`))

	assert.False(t, matched)
	assert.Contains(t, got, "no reply field found")
	assert.Contains(t, got, "foo")
	assert.Contains(t, got, `{"foo":"bar"}`)
}

func TestExtractReply_ArrayDiagnostic(t *testing.T) {
	t.Parallel()

	got, matched := ExtractReply([]byte(`[1,2,3]`))

	assert.False(t, matched)
	assert.Contains(t, got, "[array of length 3]")
}

func TestExtractReply_ObjectMessageIsNotAReply(t *testing.T) {
	t.Parallel()

	// message is an object without content; must not be stringified
	got, matched := ExtractReply([]byte(`{"message":{"role":"assistant"}}`))

	assert.False(t, matched)
	assert.Contains(t, got, "message")
}
