// Package formats names the uncompressed pixel formats a UVC camera can
// advertise by GUID.
package formats

import "github.com/google/uuid"

type CompressionFormat [16]byte

var (
	CompressionFormatYUY2  = CompressionFormat(uuid.MustParse("32595559-0000-0010-8000-00AA00389B71"))
	CompressionFormatNV12  = CompressionFormat(uuid.MustParse("3231564E-0000-0010-8000-00AA00389B71"))
	CompressionFormatM420  = CompressionFormat(uuid.MustParse("3032344D-0000-0010-8000-00AA00389B71"))
	CompressionFormatI420  = CompressionFormat(uuid.MustParse("30323449-0000-0010-8000-00AA00389B71"))
	CompressionFormatY800  = CompressionFormat(uuid.MustParse("30303859-0000-0010-8000-00AA00389B71"))
	CompressionFormatRGB24 = CompressionFormat(uuid.MustParse("E436EB7D-524F-11CE-9F53-0020AF0BA770"))
)

var fourCCs = map[CompressionFormat]string{
	CompressionFormatYUY2:  "YUY2",
	CompressionFormatNV12:  "NV12",
	CompressionFormatM420:  "M420",
	CompressionFormatI420:  "I420",
	CompressionFormatY800:  "Y800",
	CompressionFormatRGB24: "RGB3",
}

// FourCC returns the four character code of a known format.
func (c CompressionFormat) FourCC() (string, bool) {
	s, ok := fourCCs[c]
	return s, ok
}

func (c CompressionFormat) String() string {
	if s, ok := fourCCs[c]; ok {
		return s
	}
	return uuid.UUID(c).String()
}
