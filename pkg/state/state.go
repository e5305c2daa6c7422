package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/rebrand/pkg/brand"
	"github.com/walteh/rebrand/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// LockFileName is the default name of the state file
const LockFileName = ".rebrand.lock"

// SchemaVersion is written into every state file
const SchemaVersion = "1.0.0"

// 🔒 State records the last completed rebrand of a tree
type State struct {
	SchemaVersion string       `json:"schema_version"`
	LastUpdated   time.Time    `json:"last_updated"`
	BrandHash     string       `json:"brand_hash"`
	Brand         BrandState   `json:"brand"`
	Phases        []PhaseState `json:"phases"`
}

// BrandState is the brand the tree was rewritten to
type BrandState struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Community   string `json:"community"`
}

// PhaseState is one phase of the last run
type PhaseState struct {
	Name  string      `json:"name"`
	Dir   string      `json:"dir"`
	Files []FileState `json:"files"`
}

// FileState is a file the last run rewrote
type FileState struct {
	Path         string   `json:"path"`
	Checksum     string   `json:"checksum"`
	Replacements int      `json:"replacements"`
	Rules        []string `json:"rules,omitempty"`
}

// 🏭 New creates an empty state for b
func New(b brand.Config) *State {
	return &State{
		SchemaVersion: SchemaVersion,
		BrandHash:     BrandHash(b),
		Brand: BrandState{
			Name:        b.Name,
			Description: b.Description,
			Community:   b.Community,
		},
	}
}

// BrandHash identifies a brand configuration.
func BrandHash(b brand.Config) string {
	h := sha256.New()
	for _, v := range []string{b.Name, b.Description, b.Community} {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// 📥 LoadState loads state from a lock file. A missing file returns an error
// matching os.ErrNotExist.
func LoadState(ctx context.Context, path string) (*State, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading state")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading state file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Errorf("parsing state file: %w", err)
	}
	if s.SchemaVersion != SchemaVersion {
		return nil, errors.Errorf("unsupported state schema version %q", s.SchemaVersion)
	}
	return &s, nil
}

// 💾 WriteState writes state to a lock file
func WriteState(ctx context.Context, path string, s *State) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("writing state")

	s.LastUpdated = time.Now().UTC()
	data, err := json.MarshalIndent(s, "", "\t")
	if err != nil {
		return errors.Errorf("marshaling state: %w", err)
	}

	mgr := status.New(filepath.Dir(path), logger)
	if err := mgr.WriteFileAtomic(ctx, filepath.Base(path), append(data, '\n')); err != nil {
		return errors.Errorf("writing state file: %w", err)
	}
	return nil
}

// PutPhase records the files a phase rewrote, replacing any earlier record of
// the same phase.
func (s *State) PutPhase(name, dir string, files []status.FileInfo) {
	phase := PhaseState{Name: name, Dir: dir, Files: []FileState{}}
	for _, f := range files {
		if f.Status != status.StatusRebranded {
			continue
		}
		phase.Files = append(phase.Files, FileState{
			Path:         f.Path,
			Checksum:     f.Checksum,
			Replacements: f.Replacements,
			Rules:        f.Rules,
		})
	}
	sort.Slice(phase.Files, func(i, j int) bool { return phase.Files[i].Path < phase.Files[j].Path })

	for i := range s.Phases {
		if s.Phases[i].Name == name {
			s.Phases[i] = phase
			return
		}
	}
	s.Phases = append(s.Phases, phase)
}

// 📋 Report is the result of checking a tree against its state
type Report struct {
	BrandChanged bool
	Modified     []string
	Missing      []string
}

// UpToDate reports whether the tree still matches the last run.
func (r Report) UpToDate() bool {
	return !r.BrandChanged && len(r.Modified) == 0 && len(r.Missing) == 0
}

// 🔍 Check compares the recorded files and brand against the tree and b.
// Paths in the report are joined with their phase directory.
func (s *State) Check(ctx context.Context, b brand.Config) (Report, error) {
	logger := zerolog.Ctx(ctx)

	report := Report{BrandChanged: s.BrandHash != BrandHash(b)}
	for _, phase := range s.Phases {
		mgr := status.New(phase.Dir, logger)
		for _, f := range phase.Files {
			path := filepath.Join(phase.Dir, filepath.FromSlash(f.Path))
			data, err := mgr.ReadFile(ctx, f.Path)
			if errors.Is(err, os.ErrNotExist) {
				report.Missing = append(report.Missing, path)
				continue
			}
			if err != nil {
				return Report{}, errors.Errorf("checking %s: %w", path, err)
			}
			if status.Checksum(data) != f.Checksum {
				report.Modified = append(report.Modified, path)
			}
		}
	}
	return report, nil
}
