package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/entremotivator/catalog/internal/core/domain"
)

// =============================================================================
// CSV Store
// =============================================================================

const (
	backupPrefix     = "products_backup_"
	backupSuffix     = ".csv"
	backupTimeLayout = "20060102_150405"

	// DefaultKeepBackups is how many timestamped backups are retained.
	DefaultKeepBackups = 10

	// utf8BOM is written at the start of saved files and tolerated on read,
	// matching the encoding spreadsheet tools expect.
	utf8BOM = "\ufeff"
)

// Catalog column names. The table may carry any number of extra columns,
// which round-trip through load/save untouched.
const (
	colRecordID    = "record_id"
	colName        = "Name"
	colDescription = "Description"
	colImages      = "Images"
	colSlug        = "URL Slug"
)

func knownColumns() []string {
	return []string{colRecordID, colName, colDescription, colImages, colSlug}
}

// CSVConfig holds CSV store configuration.
type CSVConfig struct {
	// Path is the catalog CSV file.
	Path string

	// BackupDir receives timestamped copies of the file before each save.
	BackupDir string

	// KeepBackups is how many backups to retain; 0 means DefaultKeepBackups.
	KeepBackups int
}

// CSVStore implements Store on a flat CSV file.
//
// Every read re-parses the file so callers always see the latest persisted
// state, and every save first copies the previous file into the backup
// directory. The mutex only serializes access within this process; the file
// itself is the coordination point between processes, which is why writes
// are last-writer-wins.
type CSVStore struct {
	path        string
	backupDir   string
	keepBackups int
	logger      *slog.Logger

	mu     sync.Mutex
	header []string // column order observed at last load, kept for saves
}

// NewCSVStore creates a CSV store and ensures the backup directory exists.
// The catalog file itself is not required to exist until the first load.
func NewCSVStore(cfg CSVConfig, logger *slog.Logger) (*CSVStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.KeepBackups <= 0 {
		cfg.KeepBackups = DefaultKeepBackups
	}
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return nil, NewStoreError("NewCSVStore", "", "failed to create backup directory", err)
	}
	return &CSVStore{
		path:        cfg.Path,
		backupDir:   cfg.BackupDir,
		keepBackups: cfg.KeepBackups,
		logger:      logger,
	}, nil
}

// Close implements Store. A CSV store holds no open handles between calls.
func (s *CSVStore) Close() error {
	return nil
}

// =============================================================================
// Store Implementation
// =============================================================================

func (s *CSVStore) LoadAll(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *CSVStore) SaveAll(ctx context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(products)
}

func (s *CSVStore) GetProduct(ctx context.Context, recordID string) (*domain.Product, error) {
	products, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].RecordID == recordID {
			return &products[i], nil
		}
	}
	return nil, NewStoreError("GetProduct", recordID, "no such record", ErrNotFound)
}

func (s *CSVStore) UpdateProductSlug(ctx context.Context, recordID, slug string) error {
	// Hold the lock across the whole read-modify-write so two in-process
	// updates cannot tear each other's rows.
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadLocked()
	if err != nil {
		return err
	}

	found := false
	for i := range products {
		if products[i].RecordID == recordID {
			products[i].Slug = slug
			found = true
			break
		}
	}
	if !found {
		return NewStoreError("UpdateProductSlug", recordID, "no such record", ErrNotFound)
	}

	return s.saveLocked(products)
}

func (s *CSVStore) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	products, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.MatchesSearch(term) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *CSVStore) Summary(ctx context.Context) (domain.Summary, error) {
	products, err := s.LoadAll(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(products), nil
}

// =============================================================================
// File Mechanics
// =============================================================================

func (s *CSVStore) loadLocked() ([]domain.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, NewStoreError("LoadAll", "", err.Error(), ErrLoadFailed)
	}

	content := strings.TrimPrefix(string(data), utf8BOM)
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, NewStoreError("LoadAll", "", err.Error(), ErrLoadFailed)
	}
	if len(rows) == 0 {
		return nil, NewStoreError("LoadAll", "", "file has no header row", ErrLoadFailed)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		colIndex[h] = i
	}
	if _, ok := colIndex[colRecordID]; !ok {
		return nil, NewStoreError("LoadAll", "", "missing record_id column", ErrMissingColumns)
	}

	// Remember column order, with any known columns the file lacks appended,
	// so saves keep the file shape stable.
	fullHeader := header
	for _, col := range knownColumns() {
		if _, ok := colIndex[col]; !ok {
			fullHeader = append(fullHeader, col)
		}
	}
	s.header = fullHeader

	known := map[string]bool{}
	for _, col := range knownColumns() {
		known[col] = true
	}

	products := make([]domain.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(col string) string {
			i, ok := colIndex[col]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		id := strings.TrimSpace(cell(colRecordID))
		// Legacy exports write the literal string "nan" for missing ids.
		if id == "" || id == "nan" {
			continue
		}

		p := domain.Product{
			RecordID:    id,
			Name:        cell(colName),
			Description: cell(colDescription),
			Images:      cell(colImages),
			Slug:        cell(colSlug),
		}
		for _, col := range header {
			if !known[col] {
				if p.Extra == nil {
					p.Extra = map[string]string{}
				}
				p.Extra[col] = cell(col)
			}
		}
		products = append(products, p)
	}

	return products, nil
}

func (s *CSVStore) saveLocked(products []domain.Product) error {
	s.backupLocked()

	header := s.saveHeader(products)

	var sb strings.Builder
	sb.WriteString(utf8BOM)
	w := csv.NewWriter(&sb)
	if err := w.Write(header); err != nil {
		return NewStoreError("SaveAll", "", err.Error(), ErrSaveFailed)
	}
	for _, p := range products {
		row := make([]string, len(header))
		for i, col := range header {
			switch col {
			case colRecordID:
				row[i] = p.RecordID
			case colName:
				row[i] = p.Name
			case colDescription:
				row[i] = p.Description
			case colImages:
				row[i] = p.Images
			case colSlug:
				row[i] = p.Slug
			default:
				row[i] = p.Extra[col]
			}
		}
		if err := w.Write(row); err != nil {
			return NewStoreError("SaveAll", "", err.Error(), ErrSaveFailed)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return NewStoreError("SaveAll", "", err.Error(), ErrSaveFailed)
	}

	if err := os.WriteFile(s.path, []byte(sb.String()), 0o644); err != nil {
		return NewStoreError("SaveAll", "", err.Error(), ErrSaveFailed)
	}
	s.header = header
	return nil
}

// saveHeader returns the column order for a save: the order observed at the
// last load when there was one, otherwise the known columns, in both cases
// followed by any extra columns not yet covered, sorted for determinism.
func (s *CSVStore) saveHeader(products []domain.Product) []string {
	header := s.header
	if len(header) == 0 {
		header = knownColumns()
	}

	covered := make(map[string]bool, len(header))
	for _, col := range header {
		covered[col] = true
	}

	var missing []string
	for _, p := range products {
		for col := range p.Extra {
			if !covered[col] {
				covered[col] = true
				missing = append(missing, col)
			}
		}
	}
	sort.Strings(missing)
	return append(append([]string{}, header...), missing...)
}

// backupLocked copies the current file into the backup directory. Backup
// failure is logged and swallowed: losing a backup must not block a save.
func (s *CSVStore) backupLocked() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read catalog for backup", "error", err)
		}
		return
	}

	name := fmt.Sprintf("%s%s%s", backupPrefix, time.Now().Format(backupTimeLayout), backupSuffix)
	backupPath := filepath.Join(s.backupDir, name)
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		s.logger.Warn("could not create backup", "path", backupPath, "error", err)
		return
	}

	s.cleanupBackupsLocked()
}

// cleanupBackupsLocked removes old backups, keeping the most recent ones.
// Backup names embed a sortable timestamp, so lexical order is time order.
func (s *CSVStore) cleanupBackupsLocked() {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		s.logger.Warn("could not list backup directory", "error", err)
		return
	}

	var backups []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) {
			backups = append(backups, name)
		}
	}
	if len(backups) <= s.keepBackups {
		return
	}

	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	for _, name := range backups[s.keepBackups:] {
		if err := os.Remove(filepath.Join(s.backupDir, name)); err != nil {
			s.logger.Warn("could not remove old backup", "name", name, "error", err)
		}
	}
}
