package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-kenyajobs/internal/source"
)

var csvHeader = []string{
	"job_title", "link", "date_posted", "date_expires",
	"qualification", "years_of_experience", "location", "source",
}

// FileStore keeps one JSON file and one CSV file per calendar day. Both are
// rewritten on every acceptance; a new day starts empty.
type FileStore struct {
	mu       sync.Mutex
	jsonPath string
	csvPath  string
	postings []source.Posting
	links    map[string]bool
}

// NewFileStore opens (or starts) the store files for the given day. An
// existing file seeds the in-memory set; a corrupt one is logged and
// treated as empty.
func NewFileStore(dir string, today time.Time) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: create directory %s: %w", dir, err)
	}

	day := today.Format("2006-01-02")
	fs := &FileStore{
		jsonPath: filepath.Join(dir, fmt.Sprintf("kenya_jobs_%s.json", day)),
		csvPath:  filepath.Join(dir, fmt.Sprintf("jobs_%s.csv", day)),
		links:    make(map[string]bool),
	}
	fs.load()
	return fs, nil
}

func (fs *FileStore) load() {
	data, err := os.ReadFile(fs.jsonPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read existing jobs file: %v", err)
		}
		return
	}

	var postings []source.Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		log.Printf("⚠️ Corrupt jobs file, starting fresh: %v", err)
		return
	}

	fs.postings = postings
	for _, p := range postings {
		fs.links[p.Link] = true
	}
	log.Printf("📋 Loaded %d existing jobs from today's file", len(postings))
}

// Append records one accepted posting and rewrites both export files. A
// link already present is a no-op, keeping the operation idempotent. The
// link is registered only once both files land, so a failed write leaves
// the posting retryable.
func (fs *FileStore) Append(posting source.Posting) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.links[posting.Link] {
		return nil
	}

	fs.postings = append(fs.postings, posting)
	if err := fs.writeJSON(); err != nil {
		fs.postings = fs.postings[:len(fs.postings)-1]
		return err
	}
	if err := fs.writeCSV(); err != nil {
		fs.postings = fs.postings[:len(fs.postings)-1]
		return err
	}
	fs.links[posting.Link] = true
	return nil
}

func (fs *FileStore) writeJSON() error {
	data, err := json.MarshalIndent(fs.postings, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal jobs: %w", err)
	}
	if err := os.WriteFile(fs.jsonPath, data, 0644); err != nil {
		return fmt.Errorf("store: write %s: %w", fs.jsonPath, err)
	}
	return nil
}

func (fs *FileStore) writeCSV() error {
	f, err := os.Create(fs.csvPath)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", fs.csvPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("store: write csv header: %w", err)
	}
	for _, p := range fs.postings {
		record := []string{
			p.Title, p.Link, p.DatePosted, p.DateExpires,
			p.Qualification, p.Experience, p.Location, p.Source,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("store: write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("store: flush csv: %w", err)
	}
	return nil
}

func (fs *FileStore) Links() ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	links := make([]string, 0, len(fs.postings))
	for _, p := range fs.postings {
		links = append(links, p.Link)
	}
	return links, nil
}

func (fs *FileStore) Count() (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.postings), nil
}

func (fs *FileStore) Close() error {
	return nil
}
