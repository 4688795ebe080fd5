// Package seed loads the starter catalogue of knowledge pills.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed pills.json
var pillsJSON []byte

type pill struct {
	Title    string                   `json:"title"`
	Type     valueobjects.ContentType `json:"type"`
	Body     string                   `json:"body"`
	VideoURL string                   `json:"videoUrl"`
	Quiz     *valueobjects.Quiz       `json:"quiz"`
	Tags     []string                 `json:"tags"`
	AgeDays  int                      `json:"ageDays"`
}

// Catalogue builds the embedded pills relative to now. Pills of the same age
// are spaced a minute apart so ordering is stable.
func Catalogue(now time.Time, cfg *config.DomainConfig) ([]*entities.Content, error) {
	var pills []pill
	if err := json.Unmarshal(pillsJSON, &pills); err != nil {
		return nil, fmt.Errorf("failed to decode embedded pills: %w", err)
	}

	out := make([]*entities.Content, 0, len(pills))
	for i, p := range pills {
		in := entities.ContentInput{
			Title:    p.Title,
			Type:     p.Type,
			Body:     p.Body,
			VideoURL: p.VideoURL,
			Tags:     p.Tags,
		}
		if p.Quiz != nil {
			data, err := json.Marshal(p.Quiz)
			if err != nil {
				return nil, err
			}
			in.QuizData = string(data)
		}

		created := now.AddDate(0, 0, -p.AgeDays).Add(-time.Duration(i) * time.Minute)
		c, err := entities.NewContent(uuid.NewString(), in, created, cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid embedded pill %q: %w", p.Title, err)
		}
		out = append(out, c)
	}
	return out, nil
}

const (
	lockName = "seed-content"
	lockTTL  = 2 * time.Minute
)

// Seeder fills an empty catalogue
type Seeder struct {
	contentRepo ports.ContentRepository
	locker      ports.Locker
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

func NewSeeder(contentRepo ports.ContentRepository, locker ports.Locker, cfg *config.DomainConfig, logger *zap.Logger) *Seeder {
	return &Seeder{contentRepo: contentRepo, locker: locker, cfg: cfg, logger: logger}
}

// Run inserts the catalogue when no content exists and reports how many pills it stored.
// Instances starting together race for a lock; the losers skip seeding.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	release, err := s.locker.TryLock(ctx, lockName, lockTTL)
	if errors.Is(err, ports.ErrLockHeld) {
		s.logger.Info("Another instance is seeding, skipping")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to release seed lock", zap.Error(err))
		}
	}()

	count, err := s.contentRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Debug("Content already exists, skipping seed", zap.Int("count", count))
		return 0, nil
	}

	pills, err := Catalogue(time.Now(), s.cfg)
	if err != nil {
		return 0, err
	}
	if err := s.contentRepo.SaveBatch(ctx, pills); err != nil {
		return 0, err
	}

	s.logger.Info("Seeded knowledge pills", zap.Int("count", len(pills)))
	return len(pills), nil
}
