package deployments

import (
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"github.com/pkg/errors"

	iotypes "github.com/EscanBE/valueiou/types"
)

// Store persists deployment records by name.
type Store interface {
	// Get returns the record of name, or nil when there is none.
	Get(name string) (*Deployment, error)
	Save(deployment *Deployment) error
	Delete(name string) error
	Names() ([]string, error)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)

// MemoryStore keeps records for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Deployment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Deployment),
	}
}

func (s *MemoryStore) Get(name string) (*Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[name], nil
}

func (s *MemoryStore) Save(deployment *Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[deployment.Name] = deployment
	return nil
}

func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, name)
	return nil
}

func (s *MemoryStore) Names() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

const chainIDFile = ".chainId"

// FileStore keeps one JSON record per deployment under <dir>/<network>/<Name>.json,
// next to a .chainId file binding the folder to a chain.
type FileStore struct {
	dir     string
	chainID *big.Int
}

// OpenFileStore opens the records of network. It fails when the folder belongs to another chain.
func OpenFileStore(dir, network string, chainID *big.Int) (*FileStore, error) {
	s := &FileStore{
		dir:     filepath.Join(dir, network),
		chainID: chainID,
	}

	bz, err := os.ReadFile(filepath.Join(s.dir, chainIDFile))
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, errors.Wrap(err, "failed to read chain id of deployments")
	}

	stored, ok := new(big.Int).SetString(strings.TrimSpace(string(bz)), 10)
	if !ok {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidConfig, "bad chain id %q in %s", string(bz), s.dir)
	}
	if stored.Cmp(chainID) != 0 {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidConfig, "deployments in %s are for chain %s, connected to chain %s", s.dir, stored, chainID)
	}
	return s, nil
}

// Dir returns the folder holding the records.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) Get(name string) (*Deployment, error) {
	bz, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read deployment %s", name)
	}
	return Unmarshal(name, bz)
}

func (s *FileStore) Save(deployment *Deployment) error {
	bz, err := deployment.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create deployments folder")
	}
	if err := os.WriteFile(filepath.Join(s.dir, chainIDFile), []byte(s.chainID.String()), 0o644); err != nil {
		return errors.Wrap(err, "failed to write chain id of deployments")
	}

	tmp := s.path(deployment.Name) + ".tmp"
	if err := os.WriteFile(tmp, bz, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write deployment %s", deployment.Name)
	}
	return errors.Wrapf(os.Rename(tmp, s.path(deployment.Name)), "failed to write deployment %s", deployment.Name)
}

func (s *FileStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete deployment %s", name)
	}
	return nil
}

func (s *FileStore) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list deployments")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
