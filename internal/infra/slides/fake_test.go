package slides

import (
	"context"
	"errors"
	"fmt"
	"slices"

	gslides "google.golang.org/api/slides/v1"
)

// fakeService applies batches to in-memory decks. A batch is validated as a
// whole and either fully applied or rejected, like the real service.
type fakeService struct {
	decks    map[string]*fakeDeck
	created  int
	moved    map[string]string
	batchErr error
	batches  int
}

type fakeDeck struct {
	title  string
	slides []*fakeSlide
	owner  map[string]string // shape ID -> slide ID
}

type fakeSlide struct {
	id     string
	shapes []string
	texts  map[string]string
}

func newFakeService() *fakeService {
	return &fakeService{decks: map[string]*fakeDeck{}, moved: map[string]string{}}
}

// seed creates a deck holding slides with the given IDs.
func (f *fakeService) seed(id string, slideIDs ...string) {
	d := &fakeDeck{owner: map[string]string{}}
	for _, s := range slideIDs {
		d.slides = append(d.slides, &fakeSlide{id: s, texts: map[string]string{}})
	}
	f.decks[id] = d
}

func (f *fakeService) Create(_ context.Context, title string) (*gslides.Presentation, error) {
	f.created++
	id := fmt.Sprintf("created-%d", f.created)
	f.seed(id, "p")
	f.decks[id].title = title
	return f.presentation(id), nil
}

func (f *fakeService) Get(_ context.Context, id string) (*gslides.Presentation, error) {
	if _, ok := f.decks[id]; !ok {
		return nil, errors.New("404 not found")
	}
	return f.presentation(id), nil
}

func (f *fakeService) MoveToFolder(_ context.Context, fileID, folderID string) error {
	f.moved[fileID] = folderID
	return nil
}

func (f *fakeService) presentation(id string) *gslides.Presentation {
	p := &gslides.Presentation{PresentationId: id, Title: f.decks[id].title}
	for _, s := range f.decks[id].slides {
		p.Slides = append(p.Slides, &gslides.Page{ObjectId: s.id})
	}
	return p
}

func (f *fakeService) BatchUpdate(_ context.Context, id string, reqs []*gslides.Request) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	orig, ok := f.decks[id]
	if !ok {
		return errors.New("404 not found")
	}

	d := orig.clone()
	for i, r := range reqs {
		if err := d.apply(r); err != nil {
			return fmt.Errorf("request %d: %w", i, err)
		}
	}
	if len(d.slides) == 0 {
		return errors.New("presentation must keep at least one slide")
	}

	f.decks[id] = d
	f.batches++
	return nil
}

func (d *fakeDeck) clone() *fakeDeck {
	c := &fakeDeck{title: d.title, owner: map[string]string{}}
	for k, v := range d.owner {
		c.owner[k] = v
	}
	for _, s := range d.slides {
		cs := &fakeSlide{id: s.id, shapes: slices.Clone(s.shapes), texts: map[string]string{}}
		for k, v := range s.texts {
			cs.texts[k] = v
		}
		c.slides = append(c.slides, cs)
	}
	return c
}

func (d *fakeDeck) slide(id string) *fakeSlide {
	for _, s := range d.slides {
		if s.id == id {
			return s
		}
	}
	return nil
}

func (d *fakeDeck) exists(id string) bool {
	_, isShape := d.owner[id]
	return isShape || d.slide(id) != nil
}

func (d *fakeDeck) apply(r *gslides.Request) error {
	switch {
	case r.CreateSlide != nil:
		id := r.CreateSlide.ObjectId
		if d.exists(id) {
			return fmt.Errorf("duplicate object ID %s", id)
		}
		d.slides = append(d.slides, &fakeSlide{id: id, texts: map[string]string{}})

	case r.CreateShape != nil:
		id := r.CreateShape.ObjectId
		if d.exists(id) {
			return fmt.Errorf("duplicate object ID %s", id)
		}
		s := d.slide(r.CreateShape.ElementProperties.PageObjectId)
		if s == nil {
			return fmt.Errorf("unknown page for %s", id)
		}
		s.shapes = append(s.shapes, id)
		d.owner[id] = s.id

	case r.InsertText != nil:
		owner, ok := d.owner[r.InsertText.ObjectId]
		if !ok {
			return fmt.Errorf("unknown shape %s", r.InsertText.ObjectId)
		}
		d.slide(owner).texts[r.InsertText.ObjectId] = r.InsertText.Text

	case r.UpdateTextStyle != nil:
		if _, ok := d.owner[r.UpdateTextStyle.ObjectId]; !ok {
			return fmt.Errorf("unknown shape %s", r.UpdateTextStyle.ObjectId)
		}

	case r.UpdateShapeProperties != nil:
		if _, ok := d.owner[r.UpdateShapeProperties.ObjectId]; !ok {
			return fmt.Errorf("unknown shape %s", r.UpdateShapeProperties.ObjectId)
		}

	case r.DeleteObject != nil:
		id := r.DeleteObject.ObjectId
		idx := slices.IndexFunc(d.slides, func(s *fakeSlide) bool { return s.id == id })
		if idx < 0 {
			return fmt.Errorf("unknown slide %s", id)
		}
		for _, shape := range d.slides[idx].shapes {
			delete(d.owner, shape)
		}
		d.slides = slices.Delete(d.slides, idx, idx+1)

	default:
		return errors.New("unsupported request")
	}
	return nil
}

// snapshot lists each slide's texts in shape order, ignoring object IDs.
func (d *fakeDeck) snapshot() [][]string {
	out := make([][]string, 0, len(d.slides))
	for _, s := range d.slides {
		var texts []string
		for _, shape := range s.shapes {
			if t, ok := s.texts[shape]; ok {
				texts = append(texts, t)
			}
		}
		out = append(out, texts)
	}
	return out
}
