package binding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Format of the data source.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatSQLite
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// DefaultQuery selects key/value pairs when data comes from SQLite database.
const DefaultQuery = "SELECT key, value FROM data"

// DetectFormat determines data source format. SQLite databases are
// recognized by content, everything else by file extension.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, 261)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, err
	}
	if filetype.Is(head[:n], "sqlite") {
		return FormatSQLite, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect data format of %q", path)
}

// Load reads data document from file. For SQLite databases query selects
// key and value columns, empty query means DefaultQuery.
func Load(path, query string, log *zap.Logger) (*Data, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	log.Debug("Loading data", zap.String("file", path), zap.Stringer("format", format))

	if format == FormatSQLite {
		return LoadSQLite(path, query, log)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format, log)
}

// Decode reads JSON or YAML data document. Document is an object with "data"
// entry holding flat key/value map and optional "title". Problems with "data"
// entry are reported and result in empty binding map, only undecodable input
// is an error.
func Decode(r io.Reader, format Format, log *zap.Logger) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read data: %w", err)
	}

	var doc map[string]any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("unable to decode JSON data: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unable to decode YAML data: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported data format: %s", format)
	}
	return fromDocument(doc, log), nil
}

func fromDocument(doc map[string]any, log *zap.Logger) *Data {
	d := &Data{Values: map[string]any{}}
	if title, ok := doc["title"].(string); ok {
		d.Title = title
	}

	value, ok := doc["data"]
	if !ok {
		log.Warn("Data source missing 'data' key, please check")
		return d
	}
	values, ok := value.(map[string]any)
	if !ok {
		log.Warn("Data 'data' entry must be an object", zap.String("type", fmt.Sprintf("%T", value)))
		return d
	}
	d.Values = values
	return d
}

// LoadSQLite reads key/value pairs from SQLite database. Only TEXT values are
// usable as bindings, other column types are kept so binder can report them.
func LoadSQLite(path, query string, log *zap.Logger) (*Data, error) {
	if query == "" {
		query = DefaultQuery
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("open data database: %w", err)
	}
	defer conn.Close()

	d := &Data{Values: map[string]any{}}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
		if stmt.ColumnCount() < 2 {
			return fmt.Errorf("query must return key and value columns, got %d", stmt.ColumnCount())
		}
		key := stmt.ColumnText(0)
		switch stmt.ColumnType(1) {
		case sqlite.TypeText:
			d.Values[key] = stmt.ColumnText(1)
		case sqlite.TypeInteger:
			d.Values[key] = stmt.ColumnInt64(1)
		case sqlite.TypeFloat:
			d.Values[key] = stmt.ColumnFloat(1)
		case sqlite.TypeBlob:
			buf := make([]byte, stmt.ColumnLen(1))
			stmt.ColumnBytes(1, buf)
			d.Values[key] = buf
		default:
			d.Values[key] = nil
		}
		return nil
	}})
	if err != nil {
		return nil, fmt.Errorf("read data database: %w", err)
	}
	log.Debug("Data loaded from database", zap.String("file", path), zap.Int("keys", len(d.Values)))
	return d, nil
}
