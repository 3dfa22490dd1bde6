package camerata

import "math"

// FormatOptions is a list of formats with chainable preferences for narrowing
// it down. Every Prefer method returns the matching formats, or the receiver
// unchanged when none match, so a chain never ends up empty because of an
// unsatisfiable preference.
type FormatOptions []Format

func (o FormatOptions) Prefer(match func(Format) bool) FormatOptions {
	var out FormatOptions
	for _, f := range o {
		if match(f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return o
	}
	return out
}

// inRange treats a zero bound as unbounded.
func inRange(v, lo, hi uint32) bool {
	return (lo == 0 || v >= lo) && (hi == 0 || v <= hi)
}

func (o FormatOptions) PreferFPSRange(minFPS, maxFPS uint32) FormatOptions {
	return o.Prefer(func(f Format) bool { return inRange(f.FrameRate, minFPS, maxFPS) })
}

func (o FormatOptions) PreferWidthRange(minWidth, maxWidth uint32) FormatOptions {
	return o.Prefer(func(f Format) bool { return inRange(f.Width, minWidth, maxWidth) })
}

func (o FormatOptions) PreferHeightRange(minHeight, maxHeight uint32) FormatOptions {
	return o.Prefer(func(f Format) bool { return inRange(f.Height, minHeight, maxHeight) })
}

// PreferAspectRatio keeps formats whose width/height equals widthByHeight.
func (o FormatOptions) PreferAspectRatio(widthByHeight float64) FormatOptions {
	return o.Prefer(func(f Format) bool {
		if f.Height == 0 {
			return false
		}
		return math.Abs(float64(f.Width)/float64(f.Height)-widthByHeight) < 1e-6
	})
}

func (o FormatOptions) PreferEncoding(enc Encoding) FormatOptions {
	return o.Prefer(func(f Format) bool { return f.Encoding == enc })
}

// ResolveBy returns the greatest format under less. The first of equal formats wins.
func (o FormatOptions) ResolveBy(less func(a, b Format) bool) (Format, bool) {
	if len(o) == 0 {
		return Format{}, false
	}
	best := o[0]
	for _, f := range o[1:] {
		if less(best, f) {
			best = f
		}
	}
	return best, true
}

// Resolve returns the widest format.
func (o FormatOptions) Resolve() (Format, bool) {
	return o.ResolveBy(func(a, b Format) bool { return a.Width < b.Width })
}

// ResolveDefault prefers 25 to 60 fps, a 4:3 picture and MJPEG, then takes the
// widest of what remains.
func (o FormatOptions) ResolveDefault() (Format, bool) {
	return o.PreferFPSRange(25, 60).PreferAspectRatio(4.0 / 3).PreferEncoding(MJPEG).Resolve()
}
