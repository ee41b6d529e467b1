package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/youruser/ratingapp/internal/layout"
	"github.com/youruser/ratingapp/internal/songs"
)

const (
	headerPadding = 15.0
	qrSize        = 130
	titleLines    = 2
	titleLineStep = 20.0
	dataRowStep   = 22.0
	qrMargin      = 15.0
)

// labels are the fixed header and section texts.
type labels struct {
	best, recent, average string
}

var (
	japaneseLabels = labels{best: "BEST枠", recent: "新曲枠", average: "平均"}
	asciiLabels    = labels{best: "BEST", recent: "NEW", average: "AVG"}
)

// labelsFor picks the Japanese labels when fonts can draw them.
func labelsFor(f *Fonts) labels {
	l := japaneseLabels
	if f.Covers(l.best + l.recent + l.average) {
		return l
	}
	return asciiLabels
}

var (
	bgColor          = color.NRGBA{R: 0x31, G: 0x31, B: 0x31, A: 0xff}
	cardColor        = color.NRGBA{R: 74, G: 74, B: 74, A: 204}
	placeholderColor = "#222222"
	borderColor      = "#555555"
	subTextColor     = "#C8C8C8"
	labelColor       = "#E0E0E0"
	ratingColor      = "#FFD54F"
	timestampFormat  = "2006/01/02 15:04"
)

// Options controls a single render.
type Options struct {
	Mode        layout.Mode
	Format      Format
	JPEGQuality int
	// QRText is encoded into a QR code in the header when non-empty.
	QRText string
	// GeneratedAt is printed in the header; zero means now.
	GeneratedAt time.Time
	// Fonts defaults to the embedded Go fonts.
	Fonts *Fonts
}

// BuildRatingImage renders the rating summary and encodes it.
func BuildRatingImage(player songs.Player, best, recent []songs.EnrichedSong, opts Options) ([]byte, error) {
	img, err := ComposeRatingImage(player, best, recent, opts)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := Encode(buf, img, opts.Format, opts.JPEGQuality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ComposeRatingImage draws the header and both sections. Songs must already
// carry their jacket images; a nil jacket is drawn as a dark placeholder.
func ComposeRatingImage(player songs.Player, best, recent []songs.EnrichedSong, opts Options) (image.Image, error) {
	fonts := opts.Fonts
	if fonts == nil {
		var err error
		if fonts, err = DefaultFonts(); err != nil {
			return nil, err
		}
	}
	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	var qr image.Image
	if strings.TrimSpace(opts.QRText) != "" {
		var err error
		if qr, err = GenerateQRImage(opts.QRText, qrSize); err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
	}

	plan := layout.DefaultPlan(opts.Mode, len(best), len(recent))
	w, h := plan.PixelSize()

	r := &renderer{
		dc:     gg.NewContext(w, h),
		plan:   plan,
		faces:  newFaceSet(fonts),
		labels: labelsFor(fonts),
	}
	defer r.faces.Close()

	r.dc.SetColor(bgColor)
	r.dc.Clear()

	header := headerData{
		player:      player,
		bestAvg:     songs.AverageRating(best),
		recentAvg:   songs.AverageRating(recent),
		generatedAt: generatedAt,
		qr:          qr,
	}
	if err := r.drawHeader(header); err != nil {
		return nil, err
	}
	if err := r.drawSection(r.labels.best, plan.Best, best); err != nil {
		return nil, err
	}
	if err := r.drawSection(r.labels.recent, plan.Recent, recent); err != nil {
		return nil, err
	}
	if plan.Mode == layout.SideBySide {
		r.drawDivider()
	}
	return r.dc.Image(), nil
}

type headerData struct {
	player      songs.Player
	bestAvg     float64
	recentAvg   float64
	generatedAt time.Time
	qr          image.Image
}

type renderer struct {
	dc     *gg.Context
	plan   layout.Plan
	faces  *faceSet
	labels labels
}

func (r *renderer) use(bold bool, size float64) (font.Face, error) {
	f, err := r.faces.face(bold, size)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	r.dc.SetFontFace(f)
	return f, nil
}

// qrRect is the header slot reserved for the QR code.
func (r *renderer) qrRect() (x0, y0, x1, y1 float64) {
	x0 = float64(int(r.plan.Width/2) - qrSize/2)
	y0 = headerPadding
	return x0, y0, x0 + qrSize, y0 + qrSize
}

// fitLine shortens s with an ellipsis so it fits in maxWidth with the
// current face.
func (r *renderer) fitLine(s string, maxWidth float64) string {
	lines := layout.WrapText(s, maxWidth, 1, func(t string) float64 {
		w, _ := r.dc.MeasureString(t)
		return w
	})
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func (r *renderer) drawHeader(h headerData) error {
	dc := r.dc
	right := r.plan.Width - headerPadding

	// Left column ends at the QR slot; the right column starts after it.
	leftLimit := r.plan.Width/2 - qrMargin
	rightLimit := r.plan.Width/2 + qrMargin
	if h.qr != nil {
		qx0, _, qx1, _ := r.qrRect()
		leftLimit, rightLimit = qx0-qrMargin, qx1+qrMargin
	}
	leftWidth := leftLimit - headerPadding
	rightWidth := right - rightLimit

	if _, err := r.use(true, 32); err != nil {
		return err
	}
	dc.SetColor(color.White)
	dc.DrawString(r.fitLine(h.player.Name, leftWidth), headerPadding, 50)

	if _, err := r.use(true, 24); err != nil {
		return err
	}
	dc.DrawStringAnchored(r.fitLine("PLAYER RATING: "+h.player.RatingDisplay, rightWidth), right, 50, 1, 0)

	if _, err := r.use(false, 20); err != nil {
		return err
	}
	dc.SetHexColor(subTextColor)
	best := fmt.Sprintf("%s %s: %.4f", r.labels.best, r.labels.average, h.bestAvg)
	recent := fmt.Sprintf("%s %s: %.4f", r.labels.recent, r.labels.average, h.recentAvg)
	dc.DrawStringAnchored(r.fitLine(best, rightWidth), right, 90, 1, 0)
	dc.DrawStringAnchored(r.fitLine(recent, rightWidth), right, 120, 1, 0)

	if _, err := r.use(false, 16); err != nil {
		return err
	}
	dc.DrawString(r.fitLine(h.generatedAt.Format(timestampFormat), leftWidth), headerPadding, 90)

	if h.qr != nil {
		qx0, qy0, _, _ := r.qrRect()
		dc.DrawImage(h.qr, int(qx0), int(qy0))
	}
	return nil
}

func (r *renderer) drawSection(title string, sec layout.Section, list []songs.EnrichedSong) error {
	if sec.Empty() {
		return nil
	}
	if _, err := r.use(true, 20); err != nil {
		return err
	}
	r.dc.SetColor(color.White)
	r.dc.DrawString(title, sec.Origin.X, sec.TitleTop()+25)

	for _, pos := range sec.Positions() {
		if err := r.drawCard(sec.Spec, pos, list[pos.Index]); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) drawCard(spec layout.Spec, pos layout.CardPosition, song songs.EnrichedSong) error {
	dc := r.dc
	x, y := pos.X, pos.Y
	w, h := spec.CardWidth, spec.CardHeight
	j := spec.JacketSize
	rank := song.Rank()

	dc.SetColor(cardColor)
	dc.DrawRoundedRectangle(x, y, w, h, 8)
	dc.FillPreserve()
	dc.SetHexColor(borderColor)
	dc.SetLineWidth(1)
	dc.Stroke()

	jx := x + (w-j)/2
	jy := y + 15
	if song.Jacket != nil {
		thumb := imaging.Fill(song.Jacket, int(j), int(j), imaging.Center, imaging.Lanczos)
		dc.DrawImage(thumb, int(jx), int(jy))
	} else {
		dc.SetHexColor(placeholderColor)
		dc.DrawRectangle(jx, jy, j, j)
		dc.Fill()
	}
	dc.SetHexColor(rank.Color)
	dc.SetLineWidth(4)
	dc.DrawRectangle(jx-2, jy-2, j+4, j+4)
	dc.Stroke()

	if err := r.drawBadges(jx, jy, j, rank.Label, rank.Color, pos.Index+1); err != nil {
		return err
	}

	textY := jy + j + 22
	if _, err := r.use(true, 16); err != nil {
		return err
	}
	dc.SetColor(color.White)
	measure := func(s string) float64 {
		tw, _ := dc.MeasureString(s)
		return tw
	}
	for i, line := range layout.WrapText(song.Title, w-20, titleLines, measure) {
		dc.DrawString(line, x+10, textY+float64(i)*titleLineStep)
	}

	scoreY := textY + titleLines*titleLineStep + 8
	if _, err := r.use(true, 20); err != nil {
		return err
	}
	dc.SetHexColor(rank.Color)
	dc.DrawString(fmt.Sprintf("%s [%s]", scoreText(song), rank.Label), x+10, scoreY)

	rows := []struct {
		label, value string
		emphasis     bool
	}{
		{"CONST", fmt.Sprintf("%.2f", song.ChartConstant), false},
		{"PLAY", playCount(song), false},
		{"RATING", fmt.Sprintf("%.2f", song.Rating), true},
	}
	rowY := scoreY + 26
	for _, row := range rows {
		size, c := 15.0, labelColor
		if row.emphasis {
			size, c = 17.0, ratingColor
		}
		if _, err := r.use(row.emphasis, size); err != nil {
			return err
		}
		dc.SetHexColor(c)
		dc.DrawString(row.label+":", x+10, rowY)
		dc.DrawStringAnchored(row.value, x+w-10, rowY, 1, 0)
		rowY += dataRowStep
	}
	return nil
}

// drawBadges puts the rank label on the jacket's top-left corner and the
// list number on its top-right corner.
func (r *renderer) drawBadges(jx, jy, j float64, label, rankColor string, number int) error {
	dc := r.dc
	if _, err := r.use(true, 14); err != nil {
		return err
	}
	const badgeH = 22.0

	lw, _ := dc.MeasureString(label)
	dc.SetHexColor(rankColor)
	dc.DrawRectangle(jx, jy, lw+12, badgeH)
	dc.Fill()
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(label, jx+(lw+12)/2, jy+badgeH/2, 0.5, 0.35)

	num := fmt.Sprintf("#%d", number)
	nw, _ := dc.MeasureString(num)
	dc.SetRGBA(0, 0, 0, 0.7)
	dc.DrawRectangle(jx+j-nw-12, jy, nw+12, badgeH)
	dc.Fill()
	dc.SetColor(color.White)
	dc.DrawStringAnchored(num, jx+j-(nw+12)/2, jy+badgeH/2, 0.5, 0.35)
	return nil
}

func (r *renderer) drawDivider() {
	if r.plan.Best.Empty() || r.plan.Recent.Empty() {
		return
	}
	r.dc.SetHexColor(borderColor)
	r.dc.SetLineWidth(2)
	r.dc.DrawLine(r.plan.DividerX, r.plan.HeaderHeight, r.plan.DividerX, r.plan.Height-headerPadding)
	r.dc.Stroke()
}

var scorePrinter = message.NewPrinter(language.English)

func scoreText(s songs.EnrichedSong) string {
	if t := strings.TrimSpace(s.ScoreText); t != "" {
		return t
	}
	return scorePrinter.Sprintf("%d", s.Score)
}

func playCount(s songs.EnrichedSong) string {
	if s.PlayCount == "" {
		return songs.NotAvailable
	}
	return s.PlayCount
}
