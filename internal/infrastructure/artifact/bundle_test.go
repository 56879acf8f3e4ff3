package artifact

import (
	"os"
	"path/filepath"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func writeArtifactFile(t *testing.T, dir, name string, v any) string {
	t.Helper()
	raw, err := sonic.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func bundleModelSpec(numFeatures int) modelArtifact {
	return modelArtifact{
		Version:     "2025.08",
		SchemaHash:  "abc123",
		NumFeatures: numFeatures,
		BaseScore:   1.2,
		Trees: []regressionTree{
			{Nodes: []treeNode{
				{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
				{Leaf: true, Value: -0.2},
				{Leaf: true, Value: 0.3},
			}},
		},
	}
}

func validBundlePaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		Encoder:      writeArtifactFile(t, dir, "encoder.json", validEncoderSpec()),
		GoalsFor:     writeArtifactFile(t, dir, "model_gf.json", bundleModelSpec(16)),
		GoalsAgainst: writeArtifactFile(t, dir, "model_ga.json", bundleModelSpec(16)),
	}
}

func TestLoadBundle(t *testing.T) {
	bundle, err := LoadBundle(validBundlePaths(t))
	require.NoError(t, err)

	require.Equal(t, "2025.08", bundle.Version)
	require.Equal(t, "abc123", bundle.SchemaHash)
	require.Equal(t, 16, bundle.Encoder.Width())
	require.Equal(t, 16, bundle.GoalsFor.NumFeatures())
	require.Equal(t, 16, bundle.GoalsAgainst.NumFeatures())
}

func TestLoadBundle_SchemaHashMismatch(t *testing.T) {
	dir := t.TempDir()
	drifted := bundleModelSpec(16)
	drifted.SchemaHash = "def456"

	paths := Paths{
		Encoder:      writeArtifactFile(t, dir, "encoder.json", validEncoderSpec()),
		GoalsFor:     writeArtifactFile(t, dir, "model_gf.json", drifted),
		GoalsAgainst: writeArtifactFile(t, dir, "model_ga.json", bundleModelSpec(16)),
	}

	_, err := LoadBundle(paths)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadBundle_WidthMismatch(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Encoder:      writeArtifactFile(t, dir, "encoder.json", validEncoderSpec()),
		GoalsFor:     writeArtifactFile(t, dir, "model_gf.json", bundleModelSpec(12)),
		GoalsAgainst: writeArtifactFile(t, dir, "model_ga.json", bundleModelSpec(16)),
	}

	_, err := LoadBundle(paths)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadBundle_MissingFile(t *testing.T) {
	paths := validBundlePaths(t)
	paths.Encoder = filepath.Join(t.TempDir(), "nope.json")

	_, err := LoadBundle(paths)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadBundle_CorruptJSON(t *testing.T) {
	paths := validBundlePaths(t)
	require.NoError(t, os.WriteFile(paths.GoalsFor, []byte("{not json"), 0o600))

	_, err := LoadBundle(paths)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadBundle_EmptySchemaHash(t *testing.T) {
	dir := t.TempDir()
	enc := validEncoderSpec()
	enc.SchemaHash = "  "

	paths := Paths{
		Encoder:      writeArtifactFile(t, dir, "encoder.json", enc),
		GoalsFor:     writeArtifactFile(t, dir, "model_gf.json", bundleModelSpec(16)),
		GoalsAgainst: writeArtifactFile(t, dir, "model_ga.json", bundleModelSpec(16)),
	}

	_, err := LoadBundle(paths)
	require.ErrorIs(t, err, ErrInvalid)
}
