package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scaffold headers match the hand-written files under migrations/.
const scaffoldUpTemplate = `-- Migration: %s
-- Description: %s

`

const scaffoldDownTemplate = `-- Migration: %s (Rollback)
-- Description: Rollback for %s

`

// MigrationFile describes a freshly scaffolded up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration scaffolds an empty up/down migration pair in the given
// directory, versioned by the current timestamp so files sort in creation
// order next to the numbered baseline migrations.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	version := time.Now().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		UpPath:      filepath.Join(migrationsDir, base+".up.sql"),
		DownPath:    filepath.Join(migrationsDir, base+".down.sql"),
	}

	if err := writeScaffold(mf.UpPath, scaffoldUpTemplate, name, description); err != nil {
		return nil, fmt.Errorf("create up migration: %w", err)
	}
	if err := writeScaffold(mf.DownPath, scaffoldDownTemplate, name, description); err != nil {
		// Leave no half pair behind
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("create down migration: %w", err)
	}

	return mf, nil
}

func writeScaffold(path, tmpl, name, description string) error {
	return os.WriteFile(path, []byte(fmt.Sprintf(tmpl, name, description)), 0644)
}

// sanitizeName lowercases the migration name and collapses separators and
// non-alphanumerics into single underscores.
func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			s := sb.String()
			if len(s) > 0 && !strings.HasSuffix(s, "_") {
				sb.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}

// ListMigrations returns the base names of the migration pairs in a
// directory. A missing directory is an empty list, not an error.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		migrations = append(migrations, strings.TrimSuffix(entry.Name(), ".up.sql"))
	}

	return migrations, nil
}
