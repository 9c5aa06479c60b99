package export

import (
	"bytes"
	"fmt"

	ppt "github.com/VantageDataChat/GoPPT"
)

// Slide is one unit of generated deck copy: a short title plus bullet lines.
type Slide struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// DeckService renders sales decks to PowerPoint using GoPPT (pure Go, zero dependencies)
type DeckService struct{}

// NewDeckService creates a new deck rendering service
func NewDeckService() *DeckService {
	return &DeckService{}
}

// PPT layout constants - 16:9 widescreen
const (
	emuPerInch = 914400

	deckMarginLeft   = int64(0.5 * emuPerInch)
	deckContentWidth = int64(9.0 * emuPerInch)
	deckSlideWidth   = int64(10.0 * emuPerInch)
	deckSlideHeight  = int64(5.625 * emuPerInch)

	// Font sizes (pt)
	deckFontTitle    = 36
	deckFontSubtitle = 20
	deckFontHeading  = 32
	deckFontBody     = 18
)

// Colors (ARGB) - fixed styling, stable across every slide of a document
const (
	deckColorTitle  = "FF003366"
	deckColorBody   = "FF404040"
	deckColorAccent = "FF3B82F6"
)

// helper: create a solid fill
func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

// helper: set paragraph alignment to center
func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// BuildDeck renders the slides into a .pptx document and returns its bytes.
// The first slide uses a title layout; every later slide is a heading plus
// one paragraph per bullet. A non-nil logo is placed on the first slide
// only, best-effort.
func (s *DeckService) BuildDeck(slides []Slide, logo []byte, logoMIME string) ([]byte, error) {
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides to render")
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = slides[0].Title
	p.GetDocumentProperties().Creator = "Sales Deck Generator"

	s.addTitleSlide(p, slides[0], logo, logoMIME)
	for _, slide := range slides[1:] {
		s.addContentSlide(p, slide)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPT writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save PPT: %w", err)
	}

	return buf.Bytes(), nil
}

// addTitleSlide renders the opening slide: big centered title, bullet lines
// as a subtitle block, optional logo in the top-right corner.
func (s *DeckService) addTitleSlide(p *ppt.Presentation, slide Slide, logo []byte, logoMIME string) {
	active := p.GetActiveSlide()

	topBar := active.CreateRichTextShape()
	topBar.SetOffsetX(0).SetOffsetY(0)
	topBar.SetWidth(deckSlideWidth).SetHeight(int64(0.15 * emuPerInch))
	topBar.SetFill(solidFill(deckColorAccent))

	titleShape := active.CreateRichTextShape()
	titleShape.SetOffsetX(deckMarginLeft).SetOffsetY(int64(1.8 * emuPerInch))
	titleShape.SetWidth(deckContentWidth).SetHeight(int64(1.0 * emuPerInch))
	tr := titleShape.CreateTextRun(slide.Title)
	tr.GetFont().SetSize(deckFontTitle).SetBold(true).SetColor(ppt.NewColor(deckColorTitle))
	alignCenter(titleShape.GetActiveParagraph())

	if len(slide.Content) > 0 {
		subShape := active.CreateRichTextShape()
		subShape.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(3.0 * emuPerInch))
		subShape.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(1.5 * emuPerInch))
		for i, line := range slide.Content {
			if i > 0 {
				subShape.CreateParagraph()
			}
			subTr := subShape.CreateTextRun(line)
			subTr.GetFont().SetSize(deckFontSubtitle).SetColor(ppt.NewColor(deckColorBody))
			alignCenter(subShape.GetActiveParagraph())
		}
	}

	if len(logo) > 0 {
		imgShape := active.CreateDrawingShape()
		imgShape.SetImageData(logo, logoMIME)
		imgShape.SetOffsetX(int64(8.3 * emuPerInch)).SetOffsetY(int64(0.4 * emuPerInch))
		imgShape.SetWidth(int64(1.2 * emuPerInch)).SetHeight(int64(0.75 * emuPerInch))
	}

	bottomBar := active.CreateRichTextShape()
	bottomBar.SetOffsetX(0).SetOffsetY(int64(5.5 * emuPerInch))
	bottomBar.SetWidth(deckSlideWidth).SetHeight(int64(0.125 * emuPerInch))
	bottomBar.SetFill(solidFill(deckColorAccent))
}

// addContentSlide renders a heading plus one bulleted paragraph per line.
func (s *DeckService) addContentSlide(p *ppt.Presentation, slide Slide) {
	sl := p.CreateSlide()

	topBar := sl.CreateRichTextShape()
	topBar.SetOffsetX(0).SetOffsetY(0)
	topBar.SetWidth(deckSlideWidth).SetHeight(int64(0.08 * emuPerInch))
	topBar.SetFill(solidFill(deckColorAccent))

	titleShape := sl.CreateRichTextShape()
	titleShape.SetOffsetX(deckMarginLeft).SetOffsetY(int64(0.3 * emuPerInch))
	titleShape.SetWidth(deckContentWidth).SetHeight(int64(0.7 * emuPerInch))
	tr := titleShape.CreateTextRun(slide.Title)
	tr.GetFont().SetSize(deckFontHeading).SetBold(true).SetColor(ppt.NewColor(deckColorTitle))

	if len(slide.Content) == 0 {
		return
	}

	bodyShape := sl.CreateRichTextShape()
	bodyShape.SetOffsetX(deckMarginLeft).SetOffsetY(int64(1.3 * emuPerInch))
	bodyShape.SetWidth(deckContentWidth).SetHeight(int64(3.9 * emuPerInch))
	for i, item := range slide.Content {
		if i > 0 {
			bodyShape.CreateParagraph()
		}
		bodyTr := bodyShape.CreateTextRun("• " + item)
		bodyTr.GetFont().SetSize(deckFontBody).SetColor(ppt.NewColor(deckColorBody))
	}
}
