// A run's fingerprint digests its effective configuration (keywords, day,
// logic version). Cached per-source results are reusable only under an
// identical fingerprint, so any config change forces a live fetch.

package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Version is bumped whenever the harvesting logic changes in a way that
// should invalidate previously cached results.
const Version = "19.0"

type runConfig struct {
	Date     string   `json:"date"`
	Keywords []string `json:"keywords"`
	Version  string   `json:"version"`
}

// Compute derives the fingerprint for a keyword set on a calendar day.
// Keywords are sorted first so ordering never affects the result. An empty
// keyword set is a programming error and is rejected outright.
func Compute(keywords []string, today time.Time, version string) (string, error) {
	if len(keywords) == 0 {
		return "", errors.New("fingerprint: empty keyword set")
	}

	sorted := make([]string, len(keywords))
	copy(sorted, keywords)
	sort.Strings(sorted)

	payload, err := json.Marshal(runConfig{
		Date:     today.Format("2006-01-02"),
		Keywords: sorted,
		Version:  version,
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint: marshal config: %w", err)
	}

	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%x", sum), nil
}
