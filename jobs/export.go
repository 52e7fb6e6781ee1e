package jobs

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/models"
)

// ExportStore runs CSV snapshot jobs in the background and hands out
// ids the read endpoint can poll.
type ExportStore struct {
	mu    sync.RWMutex
	files map[string]string // job id -> file path, empty while running
	dir   string
}

func NewExportStore(dir string) *ExportStore {
	return &ExportStore{
		files: make(map[string]string),
		dir:   dir,
	}
}

// Start kicks off a snapshot of (author, book_name) for all books and
// returns the job id immediately.
func (s *ExportStore) Start(db *gorm.DB) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.files[id] = ""
	s.mu.Unlock()

	go func() {
		path, err := s.writeCSV(db, id)
		if err != nil {
			log.Printf("csv export %s failed: %v", id, err)
			s.mu.Lock()
			delete(s.files, id)
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.files[id] = path
		s.mu.Unlock()
	}()

	return id
}

// Lookup returns the file path for a finished job. done is false while
// the job is still running or the id is unknown.
func (s *ExportStore) Lookup(id string) (path string, done bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.files[id]
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

func (s *ExportStore) writeCSV(db *gorm.DB, id string) (string, error) {
	var books []models.Book
	if err := db.Select("author", "book_name").Find(&books).Error; err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("books-%s.csv", id))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"author", "book_name"}); err != nil {
		return "", err
	}
	for _, book := range books {
		if err := w.Write([]string{book.Author, book.BookName}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}
