// Package slides renders a digest into a Google Slides presentation.
package slides

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	gslides "google.golang.org/api/slides/v1"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/observability/metrics"
)

// ErrRender is wrapped by every failure that leaves the deck unrendered.
var ErrRender = errors.New("render presentation failed")

const (
	presentationURLPrefix = "https://docs.google.com/presentation/d/"

	// LookbackDays is the width of the date range on the title slide.
	LookbackDays = 7
)

// Config selects the target document.
type Config struct {
	// PresentationID names an existing deck to rebuild. Empty creates a new one.
	PresentationID string

	// FolderID is the Drive folder a newly created deck is moved into.
	FolderID string

	// Location is used for every date printed on the slides.
	Location *time.Location
}

// Renderer builds the whole deck in one batchUpdate.
//
// New slides get object IDs under a fresh per-run prefix, and the deletion of
// every slide that existed before is appended to the same batch, so the
// service applies the rebuild atomically: a rejected batch leaves the previous
// deck untouched.
type Renderer struct {
	svc       PresentationService
	cfg       Config
	now       func() time.Time
	newPrefix func() string
}

// NewRenderer creates a Renderer.
func NewRenderer(svc PresentationService, cfg Config) *Renderer {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Renderer{
		svc:       svc,
		cfg:       cfg,
		now:       time.Now,
		newPrefix: runPrefix,
	}
}

// runPrefix returns a short object-ID prefix unique to this run.
func runPrefix() string {
	return "r" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// Render writes articles to the deck and returns its URL.
func (r *Renderer) Render(ctx context.Context, articles []entity.Article) (string, error) {
	start := time.Now()
	now := r.now().In(r.cfg.Location)

	presentationID, oldSlides, err := r.target(ctx, now)
	if err != nil {
		return "", err
	}

	reqs, slideCount := r.BuildRequests(articles, now)
	for _, id := range oldSlides {
		reqs = append(reqs, &gslides.Request{DeleteObject: &gslides.DeleteObjectRequest{ObjectId: id}})
	}

	slog.Info("submitting presentation batch",
		slog.String("presentation_id", presentationID),
		slog.Int("requests", len(reqs)),
		slog.Int("new_slides", slideCount),
		slog.Int("replaced_slides", len(oldSlides)))

	if err := r.svc.BatchUpdate(ctx, presentationID, reqs); err != nil {
		return "", fmt.Errorf("%w: batch update %s: %w", ErrRender, presentationID, err)
	}

	metrics.RecordRender(time.Since(start), slideCount)

	url := presentationURLPrefix + presentationID
	slog.Info("presentation created/updated", slog.String("url", url))
	return url, nil
}

// target resolves the deck to write to and the IDs of the slides it holds now.
func (r *Renderer) target(ctx context.Context, now time.Time) (string, []string, error) {
	var (
		p   *gslides.Presentation
		err error
	)

	if r.cfg.PresentationID != "" {
		p, err = r.svc.Get(ctx, r.cfg.PresentationID)
		if err != nil {
			return "", nil, fmt.Errorf("%w: get presentation %s: %w", ErrRender, r.cfg.PresentationID, err)
		}
	} else {
		title := entity.DeckTitle(now)
		p, err = r.svc.Create(ctx, title)
		if err != nil {
			return "", nil, fmt.Errorf("%w: create presentation: %w", ErrRender, err)
		}
		slog.Info("created presentation",
			slog.String("presentation_id", p.PresentationId),
			slog.String("title", title))

		if r.cfg.FolderID != "" {
			if err := r.svc.MoveToFolder(ctx, p.PresentationId, r.cfg.FolderID); err != nil {
				slog.Warn("failed to move presentation into folder",
					slog.String("presentation_id", p.PresentationId),
					slog.String("folder_id", r.cfg.FolderID),
					slog.Any("error", err))
			}
		}
	}

	oldSlides := make([]string, 0, len(p.Slides))
	for _, s := range p.Slides {
		if s.ObjectId != "" {
			oldSlides = append(oldSlides, s.ObjectId)
		}
	}
	return p.PresentationId, oldSlides, nil
}

// BuildRequests returns the requests creating the title slide, the index
// pages and one detail slide per article, plus the number of slides created.
func (r *Renderer) BuildRequests(articles []entity.Article, now time.Time) ([]*gslides.Request, int) {
	prefix := r.newPrefix()
	loc := r.cfg.Location

	reqs := titleSlideRequests(prefix+"_title_slide", now.AddDate(0, 0, -LookbackDays), now)
	slideCount := 1

	for page := 0; page*ArticlesPerIndexSlide < len(articles); page++ {
		first := page * ArticlesPerIndexSlide
		last := min(first+ArticlesPerIndexSlide, len(articles))
		slideID := fmt.Sprintf("%s_index_%d", prefix, page)
		reqs = append(reqs, indexSlideRequests(slideID, page+1, articles[first:last], first, loc)...)
		slideCount++
	}

	for i, a := range articles {
		slideID := fmt.Sprintf("%s_detail_%d", prefix, i)
		reqs = append(reqs, detailSlideRequests(slideID, i+1, a, loc)...)
		slideCount++
	}

	return reqs, slideCount
}
