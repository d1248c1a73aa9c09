package cards

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"go.uber.org/multierr"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/unionhq/membercard-backend/pkg/config"
	"github.com/unionhq/membercard-backend/pkg/db/models"
	pkgerrors "github.com/unionhq/membercard-backend/pkg/errors"
	"github.com/unionhq/membercard-backend/pkg/logger"
)

// Compositor renders membership cards to PNG. Output is deterministic for
// identical inputs: fonts are the embedded Go faces and nothing is random.
type Compositor struct {
	logg     *logger.Logger
	regular  *sfnt.Font
	bold     *sfnt.Font
	template image.Image
}

// NewCompositor parses the embedded fonts and, when configured, loads the
// background template. A template path that cannot be opened or decoded is a
// configuration error, not a render-time fallback.
func NewCompositor(cfg config.CardConfig, logg *logger.Logger) (*Compositor, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse regular font")
	}
	boldFont, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse bold font")
	}

	c := &Compositor{logg: logg, regular: regular, bold: boldFont}

	if cfg.TemplatePath != "" {
		template, err := loadTemplate(cfg.TemplatePath)
		if err != nil {
			return nil, err
		}
		c.template = template
	}
	return c, nil
}

func loadTemplate(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "open card template")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "decode card template")
	}
	return img, nil
}

// Render draws the card for a member. A nil avatar gets a placeholder
// outline. Individual field failures are collected and logged but do not
// abort the render.
func (c *Compositor) Render(ctx context.Context, member *models.Member, avatar image.Image) ([]byte, error) {
	if member == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "render called without a member record")
	}

	dc := gg.NewContext(cardWidth, cardHeight)

	c.drawBackground(dc)
	if err := c.drawChrome(dc); err != nil {
		return nil, err
	}
	c.drawAvatar(dc, avatar)

	var drawErrs error
	for _, field := range fieldLayout {
		if err := c.drawField(dc, field, member); err != nil {
			drawErrs = multierr.Append(drawErrs, fmt.Errorf("field %s: %w", field.name, err))
		}
	}
	if drawErrs != nil {
		c.logg.Warn(c.logg.WithField(ctx, "draw_errors", drawErrs.Error()),
			"card rendered with partial field failures")
	}

	c.drawWatermark(dc)

	rounded := roundCorners(dc.Image())

	var buf bytes.Buffer
	if err := png.Encode(&buf, rounded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode card png")
	}
	return buf.Bytes(), nil
}

func (c *Compositor) drawBackground(dc *gg.Context) {
	if c.template != nil {
		scaled := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), c.template, c.template.Bounds(), draw.Over, nil)
		dc.DrawImage(scaled, 0, 0)
		return
	}
	dc.SetColor(colorBackground)
	dc.Clear()
}

func (c *Compositor) drawChrome(dc *gg.Context) error {
	dc.SetColor(colorHeader)
	dc.DrawRectangle(0, 0, cardWidth, headerHeight)
	dc.Fill()

	titleFace, err := c.face(36, true)
	if err != nil {
		return err
	}
	dc.SetFontFace(titleFace)
	dc.SetColor(colorInk)
	dc.DrawStringAnchored("UNION OF INDIANS", cardWidth/2, 38, 0.5, 0.5)

	subtitleFace, err := c.face(16, false)
	if err != nil {
		return err
	}
	dc.SetFontFace(subtitleFace)
	dc.SetColor(colorMuted)
	dc.DrawStringAnchored("OFFICIAL MEMBERSHIP CARD", cardWidth/2, 72, 0.5, 0.5)

	// tri-color stripe under the header
	bandWidth := float64(cardWidth) / 3
	dc.SetColor(colorSaffron)
	dc.DrawRectangle(0, headerHeight, bandWidth, stripeHeight)
	dc.Fill()
	dc.SetColor(colorWhite)
	dc.DrawRectangle(bandWidth, headerHeight, bandWidth, stripeHeight)
	dc.Fill()
	dc.SetColor(colorGreen)
	dc.DrawRectangle(2*bandWidth, headerHeight, bandWidth, stripeHeight)
	dc.Fill()

	// logo placeholder ring in the top-left corner of the header
	dc.SetColor(colorRing)
	dc.SetLineWidth(3)
	dc.DrawCircle(52, headerHeight/2, 26)
	dc.Stroke()

	return nil
}

func (c *Compositor) drawAvatar(dc *gg.Context, avatar image.Image) {
	radius := float64(avatarSize) / 2

	if avatar == nil {
		dc.SetColor(colorMuted)
		dc.SetLineWidth(4)
		dc.DrawCircle(avatarCenterX, avatarCenterY, radius)
		dc.Stroke()
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), avatar, avatar.Bounds(), draw.Over, nil)

	dc.Push()
	dc.DrawCircle(avatarCenterX, avatarCenterY, radius)
	dc.Clip()
	dc.DrawImage(scaled, avatarCenterX-avatarSize/2, avatarCenterY-avatarSize/2)
	dc.ResetClip()
	dc.Pop()

	dc.SetColor(colorRing)
	dc.SetLineWidth(6)
	dc.DrawCircle(avatarCenterX, avatarCenterY, radius)
	dc.Stroke()
}

func (c *Compositor) drawField(dc *gg.Context, field cardField, member *models.Member) error {
	face, err := c.face(field.size, field.bold)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(field.color(member))
	dc.DrawString(fieldText(field, member), field.x, field.y)
	return nil
}

func (c *Compositor) drawWatermark(dc *gg.Context) {
	face, err := c.face(54, true)
	if err != nil {
		return
	}
	dc.SetFontFace(face)
	dc.SetRGBA(1, 1, 1, 0.04)

	dc.Push()
	dc.RotateAbout(gg.Radians(-24), cardWidth/2, cardHeight/2)
	for y := 0.0; y < cardHeight*1.5; y += 130 {
		for x := -200.0; x < cardWidth*1.5; x += 260 {
			dc.DrawString("UOI", x, y)
		}
	}
	dc.Pop()
}

func (c *Compositor) face(size float64, bold bool) (font.Face, error) {
	src := c.regular
	if bold {
		src = c.bold
	}
	return opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// roundCorners re-composites the finished card through a rounded-rectangle
// clip so the corners come out transparent.
func roundCorners(img image.Image) image.Image {
	out := gg.NewContext(cardWidth, cardHeight)
	out.DrawRoundedRectangle(0, 0, cardWidth, cardHeight, cornerRadius)
	out.Clip()
	out.DrawImage(img, 0, 0)
	return out.Image()
}
