package persistence

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func readMigrations(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading migrations dir: %v", err)
	}
	var sb strings.Builder
	for _, entry := range entries {
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			t.Fatalf("reading %s: %v", entry.Name(), err)
		}
		sb.Write(content)
	}
	return sb.String()
}

// Ticket deletes must leave the comment thread behind, so comments.ticket_id
// cannot reference tickets(id): such a constraint would make every delete of
// a commented ticket fail with a 23503 on the database path.
func TestCommentsTableHasNoTicketForeignKey(t *testing.T) {
	schema := readMigrations(t)

	commentsIdx := strings.Index(schema, "CREATE TABLE IF NOT EXISTS comments")
	if commentsIdx < 0 {
		t.Fatalf("comments table not found in migrations")
	}
	commentsDDL := schema[commentsIdx:]
	if end := strings.Index(commentsDDL, ");"); end > 0 {
		commentsDDL = commentsDDL[:end]
	}

	if regexp.MustCompile(`ticket_id\s+UUID[^,\n]*REFERENCES`).MatchString(commentsDDL) {
		t.Errorf("comments.ticket_id must not reference tickets; threads outlive their ticket")
	}
}
