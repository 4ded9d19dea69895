package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  Calle 5 #12  ", "Calle 5 #12"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"<b>Ana</b>", "Ana"},
		{`<script>alert(1)</script>José`, "José"},
		{`<a href="x" onclick="y">link</a>`, "link"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), "input %q", tt.in)
	}
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))

	blank := "<i></i> "
	assert.Nil(t, TextPtr(&blank))

	v := "55 1234"
	got := TextPtr(&v)
	if assert.NotNil(t, got) {
		assert.Equal(t, "55 1234", *got)
	}
}
