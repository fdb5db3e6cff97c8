package pdf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractTextMissingFile(t *testing.T) {
	r := NewReader(zap.NewNop())

	_, err := r.ExtractText(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorContains(t, err, "not found")
}
