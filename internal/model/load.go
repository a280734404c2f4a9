package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ErrArtifactNotFound signals that no candidate file existed for an
// artifact. Malformed files surface their decode errors instead.
var ErrArtifactNotFound = errors.New("artifact not found")

// Candidate filenames are probed in order relative to the artifact
// directory; the first existing file wins.
var (
	forestCandidates = []string{
		"model.json",
		filepath.Join("artifacts", "model.json"),
	}
	scalerCandidates = []string{
		"scaler.json",
		filepath.Join("artifacts", "scaler.json"),
	}
)

// Artifacts bundles the classifier and scaler handles shared read-only
// by every scoring call for the lifetime of the process.
type Artifacts struct {
	Forest *Forest
	Scaler *Scaler
}

// Ready reports whether predictions can be served. Both artifacts are
// required; a missing scaler means un-normalized inference, which is
// refused rather than silently skipped.
func (a *Artifacts) Ready() bool {
	return a != nil && a.Forest != nil && a.Scaler != nil
}

// Load locates and decodes both artifacts under dir. Failures degrade
// the returned handle instead of aborting the process: the service
// keeps running, refusing predictions while history stays available.
func Load(dir string) *Artifacts {
	arts := &Artifacts{}

	forest, err := LoadForest(dir)
	if err != nil {
		logrus.WithError(err).Warn("classifier unavailable, serving degraded")
	} else {
		arts.Forest = forest
	}

	scaler, err := LoadScaler(dir)
	if err != nil {
		logrus.WithError(err).Warn("scaler unavailable, serving degraded")
	} else {
		arts.Scaler = scaler
	}

	if arts.Ready() {
		logrus.WithFields(logrus.Fields{
			"classes": arts.Forest.Classes,
			"trees":   len(arts.Forest.Trees),
		}).Info("model artifacts loaded")
	}
	return arts
}

// LoadForest reads the first classifier candidate found under dir.
func LoadForest(dir string) (*Forest, error) {
	path, err := resolveCandidate(dir, forestCandidates)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	var forest Forest
	if err := decodeArtifact(path, &forest); err != nil {
		return nil, fmt.Errorf("classifier %s: %w", path, err)
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("classifier %s: %w", path, err)
	}
	return &forest, nil
}

// LoadScaler reads the first scaler candidate found under dir.
func LoadScaler(dir string) (*Scaler, error) {
	path, err := resolveCandidate(dir, scalerCandidates)
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	var scaler Scaler
	if err := decodeArtifact(path, &scaler); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	return &scaler, nil
}

func resolveCandidate(dir string, candidates []string) (string, error) {
	tried := make([]string, 0, len(candidates))
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		tried = append(tried, path)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		logrus.WithFields(logrus.Fields{
			"path":  path,
			"tried": tried,
		}).Debug("artifact candidate selected")
		return path, nil
	}
	logrus.WithField("tried", tried).Debug("no artifact candidate found")
	return "", ErrArtifactNotFound
}

func decodeArtifact(path string, out any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal artifact: %w", err)
	}
	return nil
}
