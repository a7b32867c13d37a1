package datastore

import (
	"bufio"
	"os"
	"strings"

	"printgrab/internal/common"

	"github.com/rs/zerolog"
)

// URLListStore persists the collected model URL list as a plain text file,
// one URL per line.
type URLListStore struct {
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewURLListStore creates a URL list store.
func NewURLListStore(logger zerolog.Logger) *URLListStore {
	componentLogger := logger.With().Str("component", "URLListStore").Logger()
	return &URLListStore{
		fileManager: common.NewFileManager(componentLogger),
		logger:      componentLogger,
	}
}

// Save writes the URL list to path, replacing any previous list.
func (s *URLListStore) Save(path string, urls []string) error {
	var builder strings.Builder
	for _, u := range urls {
		builder.WriteString(u)
		builder.WriteByte('\n')
	}
	if err := s.fileManager.WriteFile(path, []byte(builder.String()), 0644); err != nil {
		return common.WrapError(err, "failed to write URL list")
	}
	s.logger.Info().Str("path", path).Int("count", len(urls)).Msg("URL list saved")
	return nil
}

// Load reads a previously saved URL list. Blank lines and lines starting
// with '#' are skipped. A missing file is not an error and yields an empty
// list.
func (s *URLListStore) Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("path", path).Msg("URL list file does not exist")
			return nil, nil
		}
		return nil, common.WrapError(err, "failed to open URL list")
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, common.WrapError(err, "failed to read URL list")
	}

	s.logger.Info().Str("path", path).Int("count", len(urls)).Msg("URL list loaded")
	return urls, nil
}
