// Package pdf renders document model into paginated PDF using fpdf.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"textpdf/config"
	"textpdf/document"
	"textpdf/utils/images"
)

var (
	ErrAlreadyOpen = errors.New("pdf document is already open")
	ErrNoLoader    = errors.New("no image loader configured")
)

// vertical gap around horizontal rules and images
const ruleGap = 6

// table cell padding
const cellPadding = 5

// ImageLoader returns raw image bytes for img element source.
type ImageLoader func(src string) ([]byte, error)

type placedImage struct {
	name   string
	width  float64
	height float64
}

// Sink writes PDF document to the provided writer on Close.
type Sink struct {
	out    io.Writer
	cfg    *config.PDFConfig
	log    *zap.Logger
	loader ImageLoader
	title  string

	doc       *fpdf.Fpdf
	open      bool
	faces     map[string]fontFace
	translate func(string) string
	widths    map[widthKey]map[rune]float64
	blocks    map[document.BlockKind]blockStyle
	images    map[string]*placedImage

	size     document.PageSize
	margins  document.Margins
	needPage bool
	y        float64
}

// Option configures Sink.
type Option func(*Sink)

// WithImageLoader sets source of images referenced by img elements.
func WithImageLoader(l ImageLoader) Option {
	return func(s *Sink) { s.loader = l }
}

// WithTitle sets document title metadata.
func WithTitle(title string) Option {
	return func(s *Sink) { s.title = title }
}

// New creates PDF sink. Nothing is written until Close.
func New(out io.Writer, cfg *config.PDFConfig, log *zap.Logger, opts ...Option) *Sink {
	s := &Sink{
		out:     out,
		cfg:     cfg,
		log:     log.Named("pdf"),
		size:    document.PageA4,
		margins: document.DefaultMargins,
		blocks: map[document.BlockKind]blockStyle{
			document.BlockTitle:   newBlockStyle(cfg.Blocks.Title),
			document.BlockChapter: newBlockStyle(cfg.Blocks.Chapter),
			document.BlockSection: newBlockStyle(cfg.Blocks.Section),
			document.BlockPara:    newBlockStyle(cfg.Blocks.Para),
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Sink) Open() error {
	if s.open {
		return ErrAlreadyOpen
	}

	s.doc = fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: s.size.Width, Ht: s.size.Height},
	})
	s.doc.SetCompression(s.cfg.Compress)
	s.doc.SetAutoPageBreak(false, 0)
	s.doc.SetCreator(s.cfg.Creator, true)
	if s.cfg.Author != "" {
		s.doc.SetAuthor(s.cfg.Author, true)
	}
	if s.cfg.Subject != "" {
		s.doc.SetSubject(s.cfg.Subject, true)
	}
	if s.title != "" {
		s.doc.SetTitle(s.title, true)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to generate document id: %w", err)
	}
	s.doc.SetKeywords("id:"+id.String(), true)

	s.widths = make(map[widthKey]map[rune]float64)
	s.images = make(map[string]*placedImage)
	if err := s.registerFonts(s.cfg.Fonts); err != nil {
		return err
	}

	s.needPage = true
	s.open = true
	s.log.Debug("Document opened", zap.String("size", s.size.Name), zap.Any("margins", s.margins))
	return nil
}

// Close writes out the document. Sink could not be reopened after that.
func (s *Sink) Close() error {
	if !s.open {
		return nil
	}
	s.open = false

	// empty template still produces valid single page document
	if s.doc.PageNo() == 0 {
		s.ensurePage()
	}
	if err := s.doc.Output(s.out); err != nil {
		return fmt.Errorf("unable to write pdf: %w", err)
	}
	s.log.Debug("Document closed", zap.Int("pages", s.doc.PageNo()))
	return nil
}

func (s *Sink) IsOpen() bool {
	return s.open
}

// SetPageSize takes effect starting with the next page.
func (s *Sink) SetPageSize(size document.PageSize) {
	s.size = size
}

// SetPageMargin takes effect starting with the next page.
func (s *Sink) SetPageMargin(m document.Margins) {
	s.margins = m
}

// NewPage requests page break. Pages are created lazily so consecutive
// breaks never produce empty pages.
func (s *Sink) NewPage() {
	if !s.open {
		return
	}
	s.needPage = true
}

func (s *Sink) ensurePage() {
	if !s.needPage {
		return
	}
	s.doc.AddPageFormat("P", fpdf.SizeType{Wd: s.size.Width, Ht: s.size.Height})
	s.doc.SetMargins(float64(s.margins.Left), float64(s.margins.Top), float64(s.margins.Right))
	s.y = float64(s.margins.Top)
	s.needPage = false
}

func (s *Sink) breakPage() {
	s.needPage = true
	s.ensurePage()
}

func (s *Sink) textArea() (left, width float64) {
	left = float64(s.margins.Left)
	width = s.size.Width - left - float64(s.margins.Right)
	return left, max(width, 1)
}

func (s *Sink) contentBottom() float64 {
	return s.size.Height - float64(s.margins.Bottom)
}

func (s *Sink) atTop() bool {
	return s.y <= float64(s.margins.Top)
}

func (s *Sink) WriteBlock(kind document.BlockKind, chunks []document.Chunk) error {
	if !s.open {
		return errors.New("pdf document is not open")
	}
	bs, ok := s.blockStyle(kind)
	if !ok {
		s.log.Warn("Unknown block kind ignored", zap.Stringer("kind", kind))
		return nil
	}
	if len(chunks) == 0 {
		return nil
	}
	bs = s.overrideBlock(bs, chunks[0])

	runs := make([]run, 0, len(chunks))
	for _, c := range chunks {
		runs = append(runs, s.chunkRun(c, bs))
	}

	s.ensurePage()
	if !s.atTop() {
		s.y += bs.spaceBefore
	}
	s.layoutText(runs, bs)
	s.y += bs.spaceAfter
	return s.doc.Error()
}

func (s *Sink) AddHrule(rule document.Hrule) {
	if !s.open {
		return
	}
	s.ensurePage()

	left, textW := s.textArea()
	length := textW * float64(rule.Percent) / 100
	if s.y+ruleGap*2+float64(rule.Width) > s.contentBottom() {
		s.breakPage()
	}
	y := s.y + ruleGap + float64(rule.Width)/2
	x := left + (textW-length)/2
	s.doc.SetLineWidth(float64(rule.Width))
	s.doc.Line(x, y, x+length, y)
	s.y += ruleGap*2 + float64(rule.Width)
}

// AddImage embeds image at the left margin, scaled down to fit text area.
// Failures to load or decode image leave document intact.
func (s *Sink) AddImage(src string) error {
	if !s.open {
		return errors.New("pdf document is not open")
	}
	img, ok := s.images[src]
	if !ok {
		var err error
		if img, err = s.registerImage(src); err != nil {
			return err
		}
		s.images[src] = img
	}

	s.ensurePage()
	left, textW := s.textArea()
	w, h := img.width, img.height
	if w > textW {
		w, h = textW, h*textW/w
	}
	if maxH := s.contentBottom() - float64(s.margins.Top); h > maxH {
		w, h = w*maxH/h, maxH
	}
	if s.y+h > s.contentBottom() && !s.atTop() {
		s.breakPage()
	}
	s.doc.ImageOptions(img.name, left, s.y, w, h, false, fpdf.ImageOptions{}, 0, "")
	s.y += h + ruleGap
	return s.doc.Error()
}

func (s *Sink) registerImage(src string) (*placedImage, error) {
	if s.loader == nil {
		return nil, ErrNoLoader
	}
	data, err := s.loader(src)
	if err != nil {
		return nil, fmt.Errorf("unable to load image '%s': %w", src, err)
	}
	prepared, err := images.Prepare(data, images.Options{
		JPEGQuality: s.cfg.Images.JPEGQuality,
		Grayscale:   s.cfg.Images.Grayscale,
		SVGWidth:    s.cfg.Images.SVGWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to prepare image '%s': %w", src, err)
	}

	name := fmt.Sprintf("img%d", len(s.images))
	info := s.doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: prepared.Type}, bytes.NewReader(prepared.Data))
	if err := s.doc.Error(); err != nil {
		// image errors must not poison the rest of the document
		s.doc.ClearError()
		return nil, fmt.Errorf("unable to embed image '%s': %w", src, err)
	}
	s.log.Debug("Image registered", zap.String("src", src), zap.String("type", prepared.Type),
		zap.Int("width", prepared.Width), zap.Int("height", prepared.Height))
	return &placedImage{name: name, width: info.Width(), height: info.Height()}, nil
}
