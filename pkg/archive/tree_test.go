package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTree(t *testing.T) {
	out := RenderTree([]string{"README.md", "sub/c.go", "a.go", "sub/deeper/d.go", "Zeta.txt"})

	expected := "├── sub/\n" +
		"│   ├── deeper/\n" +
		"│   │   └── d.go\n" +
		"│   └── c.go\n" +
		"├── a.go\n" +
		"├── README.md\n" +
		"└── Zeta.txt"
	assert.Equal(t, expected, out)
}

func TestRenderTreeEmpty(t *testing.T) {
	assert.Equal(t, "", RenderTree(nil))
}
