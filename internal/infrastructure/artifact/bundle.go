// Package artifact loads the fitted model bundle the offline training
// job produces: one categorical encoder and two regression models,
// serialized as versioned JSON files.
//
// The files are the whole contract between trainer and server. Each
// carries a schema_hash computed at training time over the feature
// schema and fitted vocabulary; the loader refuses any bundle whose
// three hashes disagree, so a mismatched encoder/model pair fails at
// startup instead of silently producing garbage estimates.
package artifact

import (
	"errors"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// ErrInvalid marks a missing, corrupt or mismatched artifact. Always
// fatal: the service does not start without a coherent bundle.
var ErrInvalid = errors.New("invalid model artifact")

// Paths locates the three artifact files.
type Paths struct {
	Encoder      string
	GoalsFor     string
	GoalsAgainst string
}

// Bundle is the loaded, immutable model state shared by every
// inference call.
type Bundle struct {
	Version      string
	SchemaHash   string
	Encoder      *OneHotEncoder
	GoalsFor     *TreeEnsemble
	GoalsAgainst *TreeEnsemble
}

func LoadBundle(paths Paths) (*Bundle, error) {
	var encSpec encoderArtifact
	if err := readArtifact(paths.Encoder, &encSpec); err != nil {
		return nil, err
	}
	var gfSpec modelArtifact
	if err := readArtifact(paths.GoalsFor, &gfSpec); err != nil {
		return nil, err
	}
	var gaSpec modelArtifact
	if err := readArtifact(paths.GoalsAgainst, &gaSpec); err != nil {
		return nil, err
	}

	if strings.TrimSpace(encSpec.SchemaHash) == "" {
		return nil, crerr.Wrapf(ErrInvalid, "%s: empty schema_hash", paths.Encoder)
	}
	if gfSpec.SchemaHash != encSpec.SchemaHash || gaSpec.SchemaHash != encSpec.SchemaHash {
		return nil, crerr.Wrapf(ErrInvalid,
			"schema_hash mismatch across bundle: encoder=%s goals_for=%s goals_against=%s",
			encSpec.SchemaHash, gfSpec.SchemaHash, gaSpec.SchemaHash)
	}

	encoder, err := newOneHotEncoder(encSpec)
	if err != nil {
		return nil, crerr.Wrapf(ErrInvalid, "%s: %v", paths.Encoder, err)
	}

	goalsFor, err := newTreeEnsemble(gfSpec)
	if err != nil {
		return nil, crerr.Wrapf(ErrInvalid, "%s: %v", paths.GoalsFor, err)
	}
	goalsAgainst, err := newTreeEnsemble(gaSpec)
	if err != nil {
		return nil, crerr.Wrapf(ErrInvalid, "%s: %v", paths.GoalsAgainst, err)
	}

	if goalsFor.NumFeatures() != encoder.Width() || goalsAgainst.NumFeatures() != encoder.Width() {
		return nil, crerr.Wrapf(ErrInvalid,
			"encoder width %d does not match model inputs (goals_for=%d goals_against=%d)",
			encoder.Width(), goalsFor.NumFeatures(), goalsAgainst.NumFeatures())
	}

	return &Bundle{
		Version:      encSpec.Version,
		SchemaHash:   encSpec.SchemaHash,
		Encoder:      encoder,
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
	}, nil
}

func readArtifact(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return crerr.Wrapf(ErrInvalid, "read %s: %v", path, err)
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return crerr.Wrapf(ErrInvalid, "decode %s: %v", path, err)
	}
	return nil
}
