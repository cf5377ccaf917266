package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// auditRewriteRe matches statements that would rewrite order history.
var auditRewriteRe = regexp.MustCompile(`(?i)(TRUNCATE\s+(TABLE\s+)?order_status_logs|DELETE\s+FROM\s+order_status_logs)`)

// ValidateDir checks migration filenames, goose headers, and the audit guard
// before a release rolls the directory out.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("read file %q: %w", full, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
		if err := checkAuditGuard(name, txt); err != nil {
			return err
		}
	}

	return nil
}

// checkAuditGuard rejects forward migrations that rewrite rows in
// order_status_logs. The status log is append-only; a Down section may still
// drop the table when the orders schema itself is rolled back.
func checkAuditGuard(name, txt string) error {
	up := txt
	if i := strings.Index(txt, "-- +goose Down"); i >= 0 {
		up = txt[:i]
	}
	if auditRewriteRe.MatchString(up) {
		return fmt.Errorf("migration %q rewrites order_status_logs rows; the status log is append-only", name)
	}
	return nil
}
