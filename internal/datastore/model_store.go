package datastore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"printgrab/internal/common"
	"printgrab/internal/models"

	"github.com/rs/zerolog"
)

// ModelStore persists scraped model records as JSON, one file per model plus
// an optional aggregate file built from all per-model files.
type ModelStore struct {
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewModelStore creates a model store.
func NewModelStore(logger zerolog.Logger) *ModelStore {
	componentLogger := logger.With().Str("component", "ModelStore").Logger()
	return &ModelStore{
		fileManager: common.NewFileManager(componentLogger),
		logger:      componentLogger,
	}
}

// SaveRecord writes a model record as <modelID>.json inside modelDir.
func (s *ModelStore) SaveRecord(modelDir, modelID string, record *models.ModelRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return common.WrapError(err, "failed to marshal model record")
	}

	path := filepath.Join(modelDir, modelID+".json")
	if err := s.fileManager.WriteFile(path, data, 0644); err != nil {
		return common.WrapError(err, "failed to write model record")
	}

	s.logger.Info().Str("path", path).Msg("Model record saved")
	return nil
}

// LoadRecord reads a single per-model JSON file.
func (s *ModelStore) LoadRecord(path string) (*models.ModelRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "failed to read model record")
	}
	var record models.ModelRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, common.WrapError(err, "failed to parse model record")
	}
	return &record, nil
}

// CollectRecords walks baseDir recursively and loads every per-model JSON
// file found. Filenames listed in excludeNames are skipped, so derived
// outputs like the aggregate file living under the same base directory are
// not mistaken for records. Unreadable files are logged and skipped. Results
// are ordered by file path for stable aggregates.
func (s *ModelStore) CollectRecords(baseDir string, excludeNames ...string) ([]*models.ModelRecord, error) {
	excluded := make(map[string]struct{}, len(excludeNames))
	for _, name := range excludeNames {
		excluded[name] = struct{}{}
	}

	var paths []string
	err := filepath.WalkDir(baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		if _, skip := excluded[d.Name()]; skip {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, common.WrapError(err, "failed to scan for model records")
	}
	sort.Strings(paths)

	records := make([]*models.ModelRecord, 0, len(paths))
	for _, path := range paths {
		record, err := s.LoadRecord(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable model record")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// SaveAggregate writes all records into a single JSON array file.
func (s *ModelStore) SaveAggregate(path string, records []*models.ModelRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return common.WrapError(err, "failed to marshal aggregate")
	}
	if err := s.fileManager.WriteFile(path, data, 0644); err != nil {
		return common.WrapError(err, "failed to write aggregate")
	}
	s.logger.Info().Str("path", path).Int("records", len(records)).Msg("Aggregate data saved")
	return nil
}
