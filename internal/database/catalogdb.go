package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/libscan/internal/model"
)

// CatalogDB provides SQLite-based storage for library catalogues.
// It manages connection pooling and provides methods for saving scans
// and querying scan history.
//
// Design decision: We use a single database file for all scanned
// libraries rather than separate files per library. This simplifies
// history queries and backup/restore operations.
type CatalogDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CatalogDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CatalogDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CatalogDB, error) {
	dbPath := filepath.Join(dbDir, "libscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CatalogDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CatalogDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CatalogDB) createTables() error {
	schema := `
	-- Scan records store complete catalogues as JSON plus summary counts
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		library TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		function_count INTEGER DEFAULT 0,
		class_count INTEGER DEFAULT 0,
		packages_visited INTEGER DEFAULT 0,
		packages_skipped INTEGER DEFAULT 0,
		catalogue_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_library ON scans(library);
	CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans(timestamp);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveAnalysis saves a complete catalogue as JSON with summary counts.
// Returns the database ID of the stored scan.
func (cdb *CatalogDB) SaveAnalysis(ctx context.Context, result *model.AnalysisResult) (int64, error) {
	catalogueJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize catalogue: %w", err)
	}

	query := `
	INSERT INTO scans (library, function_count, class_count, packages_visited, packages_skipped, catalogue_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := cdb.db.ExecContext(ctx, query,
		result.Library,
		len(result.Functions),
		len(result.Classes),
		result.PackagesVisited,
		result.PackagesSkipped,
		string(catalogueJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save catalogue: %w", err)
	}

	return res.LastInsertId()
}

// GetLatestAnalysis retrieves the most recent catalogue for a library.
// Returns nil without error when no scan exists.
func (cdb *CatalogDB) GetLatestAnalysis(ctx context.Context, library string) (*model.AnalysisResult, error) {
	query := `
	SELECT catalogue_json FROM scans
	WHERE library = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var catalogueJSON string
	err := cdb.db.QueryRowContext(ctx, query, library).Scan(&catalogueJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalogue: %w", err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(catalogueJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	return &result, nil
}

// GetRecentAnalyses retrieves up to limit catalogues for a library,
// newest first. A limit of 0 or less returns all stored scans.
func (cdb *CatalogDB) GetRecentAnalyses(ctx context.Context, library string, limit int) ([]*model.AnalysisResult, error) {
	query := `
	SELECT catalogue_json FROM scans
	WHERE library = ?
	ORDER BY timestamp DESC, id DESC
	`
	args := []interface{}{library}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []*model.AnalysisResult
	for rows.Next() {
		var catalogueJSON string
		if err := rows.Scan(&catalogueJSON); err != nil {
			return nil, fmt.Errorf("failed to scan catalogue: %w", err)
		}

		var result model.AnalysisResult
		if err := json.Unmarshal([]byte(catalogueJSON), &result); err != nil {
			continue // Skip malformed catalogues
		}
		results = append(results, &result)
	}

	return results, rows.Err()
}

// ListScannedLibraries returns all libraries with at least one stored scan.
func (cdb *CatalogDB) ListScannedLibraries(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT library FROM scans
	ORDER BY library
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list libraries: %w", err)
	}
	defer rows.Close()

	var libraries []string
	for rows.Next() {
		var library string
		if err := rows.Scan(&library); err != nil {
			return nil, fmt.Errorf("failed to scan library: %w", err)
		}
		libraries = append(libraries, library)
	}

	return libraries, rows.Err()
}

// ScanMetadata contains summary information about a stored scan.
// This is used for displaying scan history without loading the full
// catalogue.
type ScanMetadata struct {
	// ID is the unique identifier of the scan in the database.
	ID int64

	// Library is the scanned library's import path.
	Library string

	// Timestamp is when the scan was performed.
	Timestamp time.Time

	// FunctionCount is the number of catalogued functions.
	FunctionCount int

	// ClassCount is the number of catalogued classes.
	ClassCount int

	// PackagesVisited counts packages that were loaded and inspected.
	PackagesVisited int

	// PackagesSkipped counts sub-packages that were skipped.
	PackagesSkipped int
}

// GetScanHistory retrieves scan metadata for a library, newest first.
// This is more efficient than GetRecentAnalyses when only counts are
// needed.
func (cdb *CatalogDB) GetScanHistory(ctx context.Context, library string) ([]ScanMetadata, error) {
	query := `
	SELECT id, library, timestamp, function_count, class_count, packages_visited, packages_skipped
	FROM scans
	WHERE library = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, library)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var timestamp string

		err := rows.Scan(
			&meta.ID,
			&meta.Library,
			&timestamp,
			&meta.FunctionCount,
			&meta.ClassCount,
			&meta.PackagesVisited,
			&meta.PackagesSkipped,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetAnalysisByID retrieves a catalogue by its database ID.
// Returns nil without error when no scan with that ID exists.
func (cdb *CatalogDB) GetAnalysisByID(ctx context.Context, id int64) (*model.AnalysisResult, error) {
	query := `
	SELECT catalogue_json FROM scans
	WHERE id = ?
	`

	var catalogueJSON string
	err := cdb.db.QueryRowContext(ctx, query, id).Scan(&catalogueJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalogue: %w", err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(catalogueJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	return &result, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
