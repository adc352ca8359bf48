package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
)

// Fixed per-user file names under the pages root.
const (
	ImageFileName    = "img.jpg"
	AudioFileName    = "audio.mp3"
	ArtifactFileName = "index.html"
	configFileName   = "config.json"
)

// AssetStatus is the filesystem-derived presence of a user's uploads. It is
// re-derived on every call, never cached, so out-of-band file changes are
// picked up at the next event.
type AssetStatus struct {
	Image bool
	Audio bool
}

func (s AssetStatus) Complete() bool { return s.Image && s.Audio }

type clientConfig struct {
	ShowOnMainPage bool `json:"showOnMainPage"`
}

// Store manages the per-user directories under the pages root: the two binary
// assets, the generated page artifact and the visibility config. The rest of
// the system never touches paths directly.
type Store interface {
	Status(username string) AssetStatus
	HasAny(username string) bool
	SaveImage(username string, data []byte) error
	SaveAudio(username string, data []byte) error
	RemoveAssets(username string) error
	WriteArtifact(username string, html []byte) error
	ReadArtifact(username string) ([]byte, error)
	Visibility(username string) bool
	SetVisibility(username string, show bool) error
	ListPublished() ([]string, error)
}

type store struct {
	root string
	log  *logger.Logger
}

func New(root string, baseLog *logger.Logger) (Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create pages root: %w", err)
	}
	return &store{root: root, log: baseLog.With("service", "AssetStore")}, nil
}

func (s *store) userDir(username string) string {
	return filepath.Join(s.root, username)
}

func (s *store) Status(username string) AssetStatus {
	dir := s.userDir(username)
	return AssetStatus{
		Image: fileExists(filepath.Join(dir, ImageFileName)),
		Audio: fileExists(filepath.Join(dir, AudioFileName)),
	}
}

func (s *store) HasAny(username string) bool {
	st := s.Status(username)
	return st.Image || st.Audio
}

func (s *store) SaveImage(username string, data []byte) error {
	return s.writeFile(username, ImageFileName, data)
}

func (s *store) SaveAudio(username string, data []byte) error {
	return s.writeFile(username, AudioFileName, data)
}

// RemoveAssets deletes the image and audio files only; the page artifact and
// the visibility config stay in place.
func (s *store) RemoveAssets(username string) error {
	dir := s.userDir(username)
	for _, name := range []string{ImageFileName, AudioFileName} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

func (s *store) WriteArtifact(username string, html []byte) error {
	return s.writeFile(username, ArtifactFileName, html)
}

func (s *store) ReadArtifact(username string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.userDir(username), ArtifactFileName))
}

// Visibility defaults to false when the config file is absent or unreadable.
func (s *store) Visibility(username string) bool {
	data, err := os.ReadFile(filepath.Join(s.userDir(username), configFileName))
	if err != nil {
		return false
	}
	var cfg clientConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.log.Warn("unreadable client config", "username", username, "error", err)
		return false
	}
	return cfg.ShowOnMainPage
}

func (s *store) SetVisibility(username string, show bool) error {
	data, err := json.MarshalIndent(clientConfig{ShowOnMainPage: show}, "", "  ")
	if err != nil {
		return err
	}
	return s.writeFile(username, configFileName, data)
}

// ListPublished returns the user directories that have both assets present and
// visibility enabled, most recently modified first.
func (s *store) ListPublished() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read pages root: %w", err)
	}

	type folder struct {
		name  string
		mtime int64
	}
	var folders []folder
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if !s.Status(e.Name()).Complete() {
			continue
		}
		if !s.Visibility(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			s.log.Warn("stat user dir failed", "username", e.Name(), "error", err)
			continue
		}
		folders = append(folders, folder{name: e.Name(), mtime: info.ModTime().UnixNano()})
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].mtime > folders[j].mtime })

	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.name)
	}
	return names, nil
}

// writeFile writes the whole document to a temp file in the user directory and
// renames it into place, so concurrent readers never observe a partial write.
func (s *store) writeFile(username, name string, data []byte) error {
	dir := s.userDir(username)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create user dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s into place: %w", name, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
