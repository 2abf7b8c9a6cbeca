package feed

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/plaroapp/plaro/domain"
)

const (
	// maxMediaBytes caps attachment size before any processing.
	maxMediaBytes = 10 << 20

	// maxImageDimension is the longest edge kept after downscaling.
	maxImageDimension = 1200

	thumbWidth  = 12
	thumbHeight = 6
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var videoExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".ogg":  true,
}

// LoadAttachment validates a local media file and converts it into an
// embeddable attachment. Images are downscaled and re-encoded as a JPEG
// data URI; videos are referenced in place.
func LoadAttachment(path string) (*domain.Media, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	if info.Size() > maxMediaBytes {
		return nil, domain.ErrMediaTooLarge
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExts[ext]:
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving attachment path: %w", err)
		}
		return &domain.Media{URL: "file://" + abs, Kind: domain.MediaVideo}, nil

	case imageExts[ext]:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading attachment: %w", err)
		}
		uri, err := encodeImageDataURI(data)
		if err != nil {
			return nil, err
		}
		return &domain.Media{URL: uri, Kind: domain.MediaImage}, nil

	default:
		return nil, domain.ErrUnsupportedMedia
	}
}

func encodeImageDataURI(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedMedia, err)
	}

	img = downscale(img, maxImageDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encoding attachment: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// downscale shrinks img so its longest edge is at most limit pixels,
// preserving aspect ratio. Smaller images pass through untouched.
func downscale(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}

	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// thumbCmds queues thumbnail renders for image attachments that do not
// have one yet.
func (m Model) thumbCmds() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range m.posts {
		if p.Media == nil || p.Media.Kind != domain.MediaImage {
			continue
		}
		url := p.Media.URL
		if _, ok := m.thumbs[url]; ok {
			continue
		}
		cmds = append(cmds, renderThumb(url))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func renderThumb(url string) tea.Cmd {
	return func() tea.Msg {
		img, err := decodeDataURI(url)
		if err != nil {
			return ThumbLoadedMsg{URL: url, Err: err}
		}
		return ThumbLoadedMsg{URL: url, Preview: renderANSIThumbnail(img, thumbWidth, thumbHeight)}
	}
}

func decodeDataURI(uri string) (image.Image, error) {
	idx := strings.Index(uri, "base64,")
	if !strings.HasPrefix(uri, "data:image/") || idx == -1 {
		return nil, fmt.Errorf("not an image data URI")
	}
	data, err := base64.StdEncoding.DecodeString(uri[idx+len("base64,"):])
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func renderANSIThumbnail(img image.Image, w, h int) string {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}
	if w < 4 {
		w = 4
	}
	if h < 2 {
		h = 2
	}
	var out strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := b.Min.X + x*b.Dx()/w
			sy := b.Min.Y + y*b.Dy()/h
			c := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			fmt.Fprintf(&out, "\x1b[48;2;%d;%d;%dm  \x1b[0m", c.R, c.G, c.B)
		}
		if y < h-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}
