// Package icon prepares the optional executable icon. PyInstaller wants a
// .ico on Windows, so raster images are converted with OpenCV before the
// build.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// MaxSize is the largest edge an ICO entry can carry.
const MaxSize = 256

var convertible = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// Extensions lists the icon file types the picker offers.
func Extensions() []string {
	return []string{".ico", ".png", ".jpg", ".jpeg", ".bmp"}
}

// NeedsConversion reports whether path must be turned into a .ico.
func NeedsConversion(path string) bool {
	return convertible[strings.ToLower(filepath.Ext(path))]
}

// Prepare returns the path to hand to --icon. A .ico (or any unknown type)
// is returned unchanged; raster images are converted into workDir.
func Prepare(path, workDir string) (string, error) {
	if !NeedsConversion(path) {
		return path, nil
	}

	entry, err := encodeEntry(path)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dst := filepath.Join(workDir, base+".ico")

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating icon: %w", err)
	}
	if err := WriteICO(f, []Entry{entry}); err != nil {
		f.Close()
		return "", fmt.Errorf("writing icon: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing icon: %w", err)
	}
	return dst, nil
}

// Preview decodes path into a thumbnail no larger than size on either edge.
func Preview(path string, size int) (image.Image, error) {
	mat, err := load(path)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	scaled := fit(mat, size)
	defer scaled.Close()

	img, err := scaled.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting preview: %w", err)
	}
	return img, nil
}

func encodeEntry(path string) (Entry, error) {
	mat, err := load(path)
	if err != nil {
		return Entry{}, err
	}
	defer mat.Close()

	scaled := fit(mat, MaxSize)
	defer scaled.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, scaled)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding %s: %w", path, err)
	}
	defer buf.Close()

	return Entry{
		Width:  scaled.Cols(),
		Height: scaled.Rows(),
		PNG:    bytes.Clone(buf.GetBytes()),
	}, nil
}

// load reads path into a Mat. For .ico the largest PNG entry is decoded.
func load(path string) (gocv.Mat, error) {
	if strings.EqualFold(filepath.Ext(path), ".ico") {
		data, err := os.ReadFile(path)
		if err != nil {
			return gocv.Mat{}, fmt.Errorf("reading icon: %w", err)
		}
		entry, err := LargestPNG(data)
		if err != nil {
			return gocv.Mat{}, err
		}
		mat, err := gocv.IMDecode(entry.PNG, gocv.IMReadUnchanged)
		if err != nil {
			return gocv.Mat{}, fmt.Errorf("decoding icon: %w", err)
		}
		if mat.Empty() {
			mat.Close()
			return gocv.Mat{}, fmt.Errorf("decoding icon: empty image")
		}
		return mat, nil
	}

	if _, err := os.Stat(path); err != nil {
		return gocv.Mat{}, fmt.Errorf("reading icon: %w", err)
	}
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("decoding %s: unsupported or corrupt image", path)
	}
	return mat, nil
}

// fit returns a copy of src scaled down to fit within limit on both edges.
// Smaller images are cloned untouched.
func fit(src gocv.Mat, limit int) gocv.Mat {
	w, h := fitSize(src.Cols(), src.Rows(), limit)
	if w == src.Cols() && h == src.Rows() {
		return src.Clone()
	}
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(w, h), 0, 0, gocv.InterpolationArea)
	return dst
}

func fitSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
