package geometry

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"golang.org/x/image/math/fixed"

	"github.com/go-drift/relay/pkg/errors"
)

// Scale is the number of device pixels per density-independent pixel.
// NewScale is the only way to build one with a factor other than 1, so a
// Scale is always finite and positive. The zero Scale is the identity.
type Scale struct {
	factor float64
}

// NewScale validates f as a scale factor.
func NewScale(f float64) (Scale, error) {
	if !(f > 0) || math.IsInf(f, 0) {
		return Scale{}, errors.New("geometry.NewScale", errors.KindInvalidScale,
			fmt.Errorf("%w: %v", errors.ErrInvalidScale, f))
	}
	return Scale{factor: f}, nil
}

// Factor returns the device pixels per density-independent pixel.
func (s Scale) Factor() float64 {
	if s.factor == 0 {
		return 1
	}
	return s.factor
}

func (s Scale) String() string {
	return strconv.FormatFloat(s.Factor(), 'g', -1, 64)
}

// PointToDevice converts p to device pixels.
func (s Scale) PointToDevice(p Point[DIP]) Point[Device] {
	f := s.Factor()
	return Point[Device]{X: p.X * f, Y: p.Y * f}
}

// PointToDIP converts p to density-independent pixels.
func (s Scale) PointToDIP(p Point[Device]) Point[DIP] {
	f := s.Factor()
	return Point[DIP]{X: p.X / f, Y: p.Y / f}
}

// VectorToDevice converts v to device pixels.
func (s Scale) VectorToDevice(v Vector[DIP]) Vector[Device] {
	f := s.Factor()
	return Vector[Device]{X: v.X * f, Y: v.Y * f}
}

// VectorToDIP converts v to density-independent pixels.
func (s Scale) VectorToDIP(v Vector[Device]) Vector[DIP] {
	f := s.Factor()
	return Vector[DIP]{X: v.X / f, Y: v.Y / f}
}

// SizeToDevice converts sz to device pixels.
func (s Scale) SizeToDevice(sz Size[DIP]) Size[Device] {
	f := s.Factor()
	return Size[Device]{Width: sz.Width * f, Height: sz.Height * f}
}

// SizeToDIP converts sz to density-independent pixels.
func (s Scale) SizeToDIP(sz Size[Device]) Size[DIP] {
	f := s.Factor()
	return Size[DIP]{Width: sz.Width / f, Height: sz.Height / f}
}

// RectToDevice converts r to device pixels.
func (s Scale) RectToDevice(r Rect[DIP]) Rect[Device] {
	return Rect[Device]{Origin: s.PointToDevice(r.Origin), Size: s.SizeToDevice(r.Size)}
}

// RectToDIP converts r to density-independent pixels.
func (s Scale) RectToDIP(r Rect[Device]) Rect[DIP] {
	return Rect[DIP]{Origin: s.PointToDIP(r.Origin), Size: s.SizeToDIP(r.Size)}
}

// ToDevice converts p using scale factor f.
func ToDevice(p Point[DIP], f float64) (Point[Device], error) {
	s, err := NewScale(f)
	if err != nil {
		return Point[Device]{}, err
	}
	return s.PointToDevice(p), nil
}

// ToDIP converts p using scale factor f. It is the inverse of ToDevice.
func ToDIP(p Point[Device], f float64) (Point[DIP], error) {
	s, err := NewScale(f)
	if err != nil {
		return Point[DIP]{}, err
	}
	return s.PointToDIP(p), nil
}

// Fixed converts a device point to 26.6 fixed point for glyph and path
// rasterizers. Coordinates outside the 26.6 range (about ±3.3e7 px)
// saturate at its bounds.
func Fixed(p Point[Device]) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(p.X), Y: toFixed(p.Y)}
}

// FixedRect converts a device rect to 26.6 fixed point, saturating like
// Fixed.
func FixedRect(r Rect[Device]) fixed.Rectangle26_6 {
	return fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: toFixed(r.Left()), Y: toFixed(r.Top())},
		Max: fixed.Point26_6{X: toFixed(r.Right()), Y: toFixed(r.Bottom())},
	}
}

// PixelBounds returns the smallest integer rectangle covering r.
func PixelBounds(r Rect[Device]) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left())),
		int(math.Floor(r.Top())),
		int(math.Ceil(r.Right())),
		int(math.Ceil(r.Bottom())),
	)
}

// toFixed rounds v to 26.6 fixed point. NaN maps to zero.
func toFixed(v float64) fixed.Int26_6 {
	x := math.Round(v * 64)
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt32:
		return math.MaxInt32
	case x <= math.MinInt32:
		return math.MinInt32
	}
	return fixed.Int26_6(x)
}
