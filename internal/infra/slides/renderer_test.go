package slides

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-ai-news/internal/domain/entity"
)

var renderNow = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

func newTestRenderer(svc PresentationService, cfg Config) *Renderer {
	cfg.Location = time.UTC
	r := NewRenderer(svc, cfg)
	r.now = func() time.Time { return renderNow }
	return r
}

func sampleArticles(n int) []entity.Article {
	out := make([]entity.Article, n)
	for i := range out {
		out[i] = entity.Article{
			Title:       fmt.Sprintf("Article %d", i+1),
			URL:         fmt.Sprintf("https://example.com/%d", i+1),
			Source:      "TechCrunch AI",
			PublishedAt: time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC),
			Summary:     fmt.Sprintf("Summary %d", i+1),
		}
	}
	return out
}

func TestRender_CreatesNewDeck(t *testing.T) {
	svc := newFakeService()
	r := newTestRenderer(svc, Config{FolderID: "folder-1"})

	url, err := r.Render(context.Background(), sampleArticles(7))
	require.NoError(t, err)

	assert.Equal(t, "https://docs.google.com/presentation/d/created-1", url)
	assert.Equal(t, "folder-1", svc.moved["created-1"])
	assert.Equal(t, "週次AIニュース 2024-01-08", svc.decks["created-1"].title)
	assert.Equal(t, 1, svc.batches, "everything goes in one batch")

	snap := svc.decks["created-1"].snapshot()
	require.Len(t, snap, 1+2+7, "title, two index pages, one detail slide per article")
	assert.Equal(t, []string{TitleHeadline, "2024/01/01 - 2024/01/08"}, snap[0])
	assert.Equal(t, "今週のAIニュース一覧 (1)", snap[1][0])
	assert.Equal(t, "今週のAIニュース一覧 (2)", snap[2][0])
}

func TestRender_IndexNumberingIsGlobal(t *testing.T) {
	svc := newFakeService()
	r := newTestRenderer(svc, Config{})

	_, err := r.Render(context.Background(), sampleArticles(6))
	require.NoError(t, err)

	snap := svc.decks["created-1"].snapshot()
	assert.Equal(t, []string{
		"今週のAIニュース一覧 (1)",
		"1. Article 1", "TechCrunch AI | 2024/01/07",
		"2. Article 2", "TechCrunch AI | 2024/01/07",
		"3. Article 3", "TechCrunch AI | 2024/01/07",
		"4. Article 4", "TechCrunch AI | 2024/01/07",
		"5. Article 5", "TechCrunch AI | 2024/01/07",
	}, snap[1])
	assert.Equal(t, []string{
		"今週のAIニュース一覧 (2)",
		"6. Article 6", "TechCrunch AI | 2024/01/07",
	}, snap[2])
}

func TestRender_DetailSlide(t *testing.T) {
	svc := newFakeService()
	r := newTestRenderer(svc, Config{})

	_, err := r.Render(context.Background(), sampleArticles(1))
	require.NoError(t, err)

	snap := svc.decks["created-1"].snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []string{
		"#1",
		"Article 1",
		"📰 TechCrunch AI  |  📅 2024年01月07日",
		SummaryHeader,
		"Summary 1",
	}, snap[2])
}

func TestRender_IdempotentOnExistingDeck(t *testing.T) {
	svc := newFakeService()
	svc.seed("deck-1", "old_a", "old_b", "old_c")
	articles := sampleArticles(8)

	r := newTestRenderer(svc, Config{PresentationID: "deck-1"})

	_, err := r.Render(context.Background(), articles)
	require.NoError(t, err)
	first := svc.decks["deck-1"].snapshot()

	_, err = r.Render(context.Background(), articles)
	require.NoError(t, err)
	second := svc.decks["deck-1"].snapshot()

	assert.Len(t, first, 1+2+8)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-render changed the deck (-first +second):\n%s", diff)
	}
	assert.Zero(t, svc.created, "existing deck is reused")
	assert.Nil(t, svc.decks["deck-1"].slide("old_a"), "previous slides are removed")
}

func TestRender_EmptyListRendersTitleOnly(t *testing.T) {
	svc := newFakeService()
	svc.seed("deck-1", "old")
	r := newTestRenderer(svc, Config{PresentationID: "deck-1"})

	_, err := r.Render(context.Background(), nil)
	require.NoError(t, err)

	snap := svc.decks["deck-1"].snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, TitleHeadline, snap[0][0])
}

func TestRender_BatchFailureLeavesDeckIntact(t *testing.T) {
	svc := newFakeService()
	svc.seed("deck-1", "old_a", "old_b")
	svc.batchErr = errors.New("400 invalid request")
	r := newTestRenderer(svc, Config{PresentationID: "deck-1"})

	_, err := r.Render(context.Background(), sampleArticles(2))

	require.ErrorIs(t, err, ErrRender)
	assert.Len(t, svc.decks["deck-1"].slides, 2)
	assert.Equal(t, "old_a", svc.decks["deck-1"].slides[0].id)
}

func TestRender_MissingDeckIsRenderError(t *testing.T) {
	r := newTestRenderer(newFakeService(), Config{PresentationID: "nope"})

	_, err := r.Render(context.Background(), sampleArticles(1))
	assert.ErrorIs(t, err, ErrRender)
}

func TestRender_TruncationBounds(t *testing.T) {
	svc := newFakeService()
	r := newTestRenderer(svc, Config{})

	a := sampleArticles(1)[0]
	a.Title = strings.Repeat("長", 100)
	a.Summary = strings.Repeat("要", 1000)

	_, err := r.Render(context.Background(), []entity.Article{a})
	require.NoError(t, err)

	snap := svc.decks["created-1"].snapshot()
	entry := snap[1][1]
	assert.Equal(t, "1. "+strings.Repeat("長", MaxIndexTitleLength)+"...", entry)

	detail := snap[2]
	assert.Equal(t, a.Title, detail[1], "detail slide shows the full title")
	assert.Equal(t, MaxSummaryLength, utf8.RuneCountInString(detail[4]))
}

func TestRender_OmitsSummaryShapeWhenBlank(t *testing.T) {
	svc := newFakeService()
	r := newTestRenderer(svc, Config{})

	a := sampleArticles(1)[0]
	a.Summary = "  "
	a.Description = ""

	_, err := r.Render(context.Background(), []entity.Article{a})
	require.NoError(t, err)

	detail := svc.decks["created-1"].snapshot()[2]
	assert.Equal(t, []string{"#1", "Article 1", "📰 TechCrunch AI  |  📅 2024年01月07日", SummaryHeader}, detail)
}

func TestRender_FallsBackToDescription(t *testing.T) {
	a := sampleArticles(1)[0]
	a.Summary = ""
	a.Description = "  from the feed  "

	assert.Equal(t, "from the feed", DetailSummary(a))
}

func TestBuildRequests_UniquePrefixPerRun(t *testing.T) {
	r := NewRenderer(newFakeService(), Config{})

	a, _ := r.BuildRequests(nil, renderNow)
	b, _ := r.BuildRequests(nil, renderNow)

	assert.NotEqual(t, a[0].CreateSlide.ObjectId, b[0].CreateSlide.ObjectId)
	for _, req := range a {
		if req.CreateShape != nil {
			id := req.CreateShape.ObjectId
			assert.True(t, len(id) >= 5 && len(id) <= 50, "object ID %q length", id)
		}
	}
}

func TestBuildRequests_StylesLinksOnTitles(t *testing.T) {
	r := NewRenderer(newFakeService(), Config{Location: time.UTC})

	reqs, count := r.BuildRequests(sampleArticles(1), renderNow)
	assert.Equal(t, 3, count)

	var linked []string
	for _, req := range reqs {
		if u := req.UpdateTextStyle; u != nil && u.Style.Link != nil {
			linked = append(linked, u.Style.Link.Url)
			assert.Equal(t, "fontSize,fontFamily,bold,link,foregroundColor", u.Fields)
		}
	}
	assert.Equal(t, []string{"https://example.com/1", "https://example.com/1"}, linked)
}

func TestIndexEntryTitle(t *testing.T) {
	assert.Equal(t, "3. Short", IndexEntryTitle(3, "Short"))
	exact := strings.Repeat("a", MaxIndexTitleLength)
	assert.Equal(t, "1. "+exact, IndexEntryTitle(1, exact))
}
