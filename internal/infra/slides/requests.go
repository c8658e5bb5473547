package slides

import (
	"fmt"
	"time"

	gslides "google.golang.org/api/slides/v1"

	"weekly-ai-news/internal/domain/entity"
	"weekly-ai-news/internal/utils/text"
)

const (
	// ArticlesPerIndexSlide is the number of entries on one index slide.
	ArticlesPerIndexSlide = 5

	// MaxIndexTitleLength is the index entry title cut, before the ellipsis.
	MaxIndexTitleLength = 70

	// MaxSummaryLength caps the detail slide summary, in characters.
	MaxSummaryLength = 800

	// TitleHeadline is the text of the title slide.
	TitleHeadline = "週次 AI ニュースまとめ"

	// SummaryHeader labels the summary block on a detail slide.
	SummaryHeader = "📝 要約"

	fontFamily = "Arial"
	unitPT     = "PT"
)

var (
	colorPrimary   = &gslides.RgbColor{Red: 0.2, Green: 0.4, Blue: 0.8}
	colorSecondary = &gslides.RgbColor{Red: 0.3, Green: 0.3, Blue: 0.3}
	colorLightGray = &gslides.RgbColor{Red: 0.95, Green: 0.95, Blue: 0.95}
)

// box is the position and size of a shape, in points.
type box struct {
	width, height float64
	x, y          float64
}

// textStyle describes the style applied to a whole text box.
type textStyle struct {
	size  float64
	bold  bool
	link  string
	color *gslides.RgbColor
}

func createSlide(id string) *gslides.Request {
	return &gslides.Request{
		CreateSlide: &gslides.CreateSlideRequest{
			ObjectId:             id,
			SlideLayoutReference: &gslides.LayoutReference{PredefinedLayout: "BLANK"},
		},
	}
}

func createShape(id, pageID, shapeType string, b box) *gslides.Request {
	return &gslides.Request{
		CreateShape: &gslides.CreateShapeRequest{
			ObjectId:  id,
			ShapeType: shapeType,
			ElementProperties: &gslides.PageElementProperties{
				PageObjectId: pageID,
				Size: &gslides.Size{
					Width:  &gslides.Dimension{Magnitude: b.width, Unit: unitPT},
					Height: &gslides.Dimension{Magnitude: b.height, Unit: unitPT},
				},
				Transform: &gslides.AffineTransform{
					ScaleX:     1,
					ScaleY:     1,
					TranslateX: b.x,
					TranslateY: b.y,
					Unit:       unitPT,
				},
			},
		},
	}
}

// textBox returns the create, insert and style requests for one text shape.
func textBox(id, pageID string, b box, content string, st textStyle) []*gslides.Request {
	style := &gslides.TextStyle{
		FontSize:        &gslides.Dimension{Magnitude: st.size, Unit: unitPT},
		FontFamily:      fontFamily,
		ForegroundColor: &gslides.OptionalColor{OpaqueColor: &gslides.OpaqueColor{RgbColor: st.color}},
	}
	fields := "fontSize,fontFamily"
	if st.bold {
		style.Bold = true
		fields += ",bold"
	}
	if st.link != "" {
		style.Link = &gslides.Link{Url: st.link}
		fields += ",link"
	}
	fields += ",foregroundColor"

	return []*gslides.Request{
		createShape(id, pageID, "TEXT_BOX", b),
		{InsertText: &gslides.InsertTextRequest{ObjectId: id, Text: content}},
		{UpdateTextStyle: &gslides.UpdateTextStyleRequest{ObjectId: id, Style: style, Fields: fields}},
	}
}

// titleSlideRequests builds the cover slide with the headline and date range.
func titleSlideRequests(slideID string, start, end time.Time) []*gslides.Request {
	dateRange := fmt.Sprintf("%s - %s", start.Format("2006/01/02"), end.Format("2006/01/02"))

	reqs := []*gslides.Request{createSlide(slideID)}
	reqs = append(reqs, textBox(slideID+"_title", slideID,
		box{width: 600, height: 80, x: 60, y: 150},
		TitleHeadline,
		textStyle{size: 44, bold: true, color: colorPrimary})...)
	reqs = append(reqs, textBox(slideID+"_date", slideID,
		box{width: 400, height: 40, x: 60, y: 240},
		dateRange,
		textStyle{size: 24, color: colorSecondary})...)
	return reqs
}

// indexSlideRequests builds one index page. first is the zero-based position
// of articles[0] in the whole run, so numbering continues across pages.
func indexSlideRequests(slideID string, page int, articles []entity.Article, first int, loc *time.Location) []*gslides.Request {
	reqs := []*gslides.Request{createSlide(slideID)}
	reqs = append(reqs, textBox(slideID+"_header", slideID,
		box{width: 650, height: 50, x: 30, y: 20},
		IndexHeader(page),
		textStyle{size: 24, bold: true, color: colorPrimary})...)

	for i, a := range articles {
		y := 70 + float64(i)*45
		itemID := fmt.Sprintf("%s_item_%d", slideID, i)

		reqs = append(reqs, textBox(itemID+"_title", slideID,
			box{width: 650, height: 25, x: 30, y: y},
			IndexEntryTitle(first+i+1, a.Title),
			textStyle{size: 14, bold: true, link: a.URL, color: colorPrimary})...)
		reqs = append(reqs, textBox(itemID+"_meta", slideID,
			box{width: 650, height: 18, x: 45, y: y + 22},
			fmt.Sprintf("%s | %s", a.Source, a.PublishedAt.In(loc).Format("2006/01/02")),
			textStyle{size: 10, color: colorSecondary})...)
	}
	return reqs
}

// detailSlideRequests builds the slide for article number n (1-based).
func detailSlideRequests(slideID string, n int, a entity.Article, loc *time.Location) []*gslides.Request {
	reqs := []*gslides.Request{createSlide(slideID)}

	reqs = append(reqs, textBox(slideID+"_badge", slideID,
		box{width: 40, height: 30, x: 30, y: 25},
		fmt.Sprintf("#%d", n),
		textStyle{size: 14, bold: true, color: colorSecondary})...)
	reqs = append(reqs, textBox(slideID+"_title", slideID,
		box{width: 650, height: 60, x: 30, y: 55},
		a.Title,
		textStyle{size: 22, bold: true, link: a.URL, color: colorPrimary})...)
	reqs = append(reqs, textBox(slideID+"_meta", slideID,
		box{width: 650, height: 25, x: 30, y: 115},
		fmt.Sprintf("📰 %s  |  📅 %s", a.Source, a.PublishedAt.In(loc).Format("2006年01月02日")),
		textStyle{size: 12, color: colorSecondary})...)

	divider := slideID + "_divider"
	reqs = append(reqs,
		createShape(divider, slideID, "RECTANGLE", box{width: 650, height: 2, x: 30, y: 145}),
		&gslides.Request{UpdateShapeProperties: &gslides.UpdateShapePropertiesRequest{
			ObjectId: divider,
			ShapeProperties: &gslides.ShapeProperties{
				ShapeBackgroundFill: &gslides.ShapeBackgroundFill{
					SolidFill: &gslides.SolidFill{Color: &gslides.OpaqueColor{RgbColor: colorLightGray}},
				},
				Outline: &gslides.Outline{PropertyState: "NOT_RENDERED"},
			},
			Fields: "shapeBackgroundFill,outline",
		}},
	)

	reqs = append(reqs, textBox(slideID+"_summary_header", slideID,
		box{width: 100, height: 25, x: 30, y: 160},
		SummaryHeader,
		textStyle{size: 14, bold: true, color: colorSecondary})...)

	if summary := DetailSummary(a); summary != "" {
		reqs = append(reqs, textBox(slideID+"_summary", slideID,
			box{width: 650, height: 200, x: 30, y: 190},
			summary,
			textStyle{size: 14, color: colorSecondary})...)
	}
	return reqs
}

// IndexHeader is the heading of index page n (1-based).
func IndexHeader(page int) string {
	return fmt.Sprintf("今週のAIニュース一覧 (%d)", page)
}

// IndexEntryTitle renders "n. title", cutting the title to
// MaxIndexTitleLength characters plus "..." when longer.
func IndexEntryTitle(n int, title string) string {
	return fmt.Sprintf("%d. %s", n, text.TruncateWithEllipsis(title, MaxIndexTitleLength, "..."))
}

// DetailSummary is the summary block text: the article's display summary cut
// to MaxSummaryLength characters. Empty means the block is omitted.
func DetailSummary(a entity.Article) string {
	return text.Truncate(a.DisplaySummary(), MaxSummaryLength)
}
