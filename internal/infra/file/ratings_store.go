package file

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"

	"isekai-quiz-service/internal/domain"
)

// RatingStats is the aggregate feedback record. Individual ratings are never
// stored, only the running statistics.
type RatingStats struct {
	Avg          float64        `json:"avg"`
	Count        int            `json:"count"`
	Distribution map[string]int `json:"distribution"`
}

// ratingsFile matches the on-disk layout. The ratings array stays empty but is
// kept so existing files remain readable by the old tooling.
type ratingsFile struct {
	Ratings []json.RawMessage `json:"ratings"`
	Stats   RatingStats       `json:"stats"`
}

// RatingsStore aggregates quiz ratings into a single JSON file.
type RatingsStore struct {
	path string
	mu   sync.Mutex
}

func NewRatingsStore(path string) *RatingsStore {
	return &RatingsStore{path: path}
}

// Init creates the ratings file if it is missing or unreadable.
func (s *RatingsStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.load(); err == nil {
		return nil
	}
	return s.write(defaultRatingsFile())
}

// Add validates and folds one rating into the statistics, returning the
// updated aggregate.
func (s *RatingsStore) Add(rating int) (RatingStats, error) {
	if rating < 1 || rating > 5 {
		return RatingStats{}, domain.ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		data = defaultRatingsFile()
	}

	stats := &data.Stats
	oldTotal := stats.Avg * float64(stats.Count)
	stats.Count++
	stats.Avg = math.Round((oldTotal+float64(rating))/float64(stats.Count)*100) / 100
	if stats.Distribution == nil {
		stats.Distribution = defaultDistribution()
	}
	key := strconv.Itoa(rating)
	if _, ok := stats.Distribution[key]; ok {
		stats.Distribution[key]++
	}

	if err := s.write(data); err != nil {
		return RatingStats{}, fmt.Errorf("save rating statistics: %w", err)
	}
	return data.Stats, nil
}

// Stats returns the current aggregate, or domain.ErrNoRatings when the file is
// missing or unreadable.
func (s *RatingsStore) Stats() (RatingStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return RatingStats{}, domain.ErrNoRatings
	}
	return data.Stats, nil
}

func (s *RatingsStore) load() (*ratingsFile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var data ratingsFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	if data.Stats.Distribution == nil {
		data.Stats.Distribution = defaultDistribution()
	}
	data.Ratings = []json.RawMessage{}
	return &data, nil
}

func (s *RatingsStore) write(data *ratingsFile) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

func defaultRatingsFile() *ratingsFile {
	return &ratingsFile{
		Ratings: []json.RawMessage{},
		Stats: RatingStats{
			Distribution: defaultDistribution(),
		},
	}
}

func defaultDistribution() map[string]int {
	return map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
}
