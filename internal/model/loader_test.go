package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jugesdebnath7/powercast/pkg/logger"
)

func TestLoad_MissingModelFile(t *testing.T) {
	_, err := Load(t.TempDir(), "v1", logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model_v1.model")
}

func TestLoad_MissingFeatureSidecar(t *testing.T) {
	dir := t.TempDir()
	// A present but invalid model file fails before the sidecar is read.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model_v1.model"), []byte("not a model"), 0o644))

	_, err := Load(dir, "v1", logger.Nop())
	require.Error(t, err)
}
