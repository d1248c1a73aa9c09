package cards

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/unionhq/membercard-backend/pkg/db/models"
	"github.com/unionhq/membercard-backend/pkg/enums"
)

// Canvas geometry. The card is landscape with the avatar on the left and the
// field column to its right.
const (
	cardWidth  = 900
	cardHeight = 550

	headerHeight = 96
	stripeHeight = 10

	avatarSize    = 220
	avatarCenterX = 170
	avatarCenterY = 320

	fieldColumnX = 330
	cornerRadius = 28
)

var (
	colorBackground = color.RGBA{R: 16, G: 24, B: 48, A: 255}
	colorHeader     = color.RGBA{R: 10, G: 15, B: 32, A: 255}
	colorInk        = color.RGBA{R: 236, G: 238, B: 245, A: 255}
	colorMuted      = color.RGBA{R: 150, G: 158, B: 180, A: 255}
	colorRing       = color.RGBA{R: 255, G: 153, B: 51, A: 255}

	colorSaffron = color.RGBA{R: 255, G: 153, B: 51, A: 255}
	colorWhite   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorGreen   = color.RGBA{R: 19, G: 136, B: 8, A: 255}

	colorStatusActive   = color.RGBA{R: 46, G: 204, B: 113, A: 255}
	colorStatusRejected = color.RGBA{R: 231, G: 76, B: 60, A: 255}
	colorStatusRevoked  = color.RGBA{R: 230, G: 126, B: 34, A: 255}
	colorStatusNeutral  = color.RGBA{R: 149, G: 165, B: 166, A: 255}
)

const (
	placeholderPending = "PENDING"
	placeholderAbsent  = "N/A"
)

// cardField describes one printed line: where it goes, how it is set, and
// what it says for a given record. Rendering walks this table in order.
type cardField struct {
	name  string
	label string
	x, y  float64
	size  float64
	bold  bool
	color func(m *models.Member) color.Color
	value func(m *models.Member) string
}

func inkColor(*models.Member) color.Color   { return colorInk }
func mutedColor(*models.Member) color.Color { return colorMuted }

func statusColor(m *models.Member) color.Color {
	switch m.Status {
	case enums.MemberStatusActive:
		return colorStatusActive
	case enums.MemberStatusRejected:
		return colorStatusRejected
	case enums.MemberStatusRevoked:
		return colorStatusRevoked
	default:
		return colorStatusNeutral
	}
}

func formatDate(t *time.Time, placeholder string) string {
	if t == nil {
		return placeholder
	}
	return t.UTC().Format("02 Jan 2006")
}

var fieldLayout = []cardField{
	{
		name: "full_name", x: fieldColumnX, y: 190, size: 40, bold: true,
		color: inkColor,
		value: func(m *models.Member) string { return strings.ToUpper(m.FullName) },
	},
	{
		name: "public_id", label: "UOI ID", x: fieldColumnX, y: 245, size: 28, bold: true,
		color: func(*models.Member) color.Color { return colorRing },
		value: func(m *models.Member) string { return m.PublicID },
	},
	{
		name: "nationality", label: "NATIONALITY", x: fieldColumnX, y: 305, size: 22,
		color: inkColor,
		value: func(m *models.Member) string { return m.Nationality },
	},
	{
		name: "role", label: "ROLE", x: fieldColumnX, y: 360, size: 22,
		color: inkColor,
		value: func(m *models.Member) string { return strings.ToUpper(m.Role) },
	},
	{
		name: "status", label: "STATUS", x: fieldColumnX, y: 415, size: 22, bold: true,
		color: statusColor,
		value: func(m *models.Member) string { return strings.ToUpper(string(m.Status)) },
	},
	{
		name: "member_since", label: "MEMBER SINCE", x: fieldColumnX, y: 470, size: 18,
		color: mutedColor,
		value: func(m *models.Member) string {
			created := m.CreatedAt
			return formatDate(&created, placeholderAbsent)
		},
	},
	{
		name: "issued", label: "ISSUED", x: fieldColumnX + 290, y: 470, size: 18,
		color: mutedColor,
		value: func(m *models.Member) string { return formatDate(m.IssuedAt, placeholderPending) },
	},
}

func fieldText(f cardField, m *models.Member) string {
	value := f.value(m)
	if f.label == "" {
		return value
	}
	return fmt.Sprintf("%s: %s", f.label, value)
}
