package formats

import (
	"testing"

	"github.com/google/uuid"
)

func TestFourCC(t *testing.T) {
	tests := []struct {
		format CompressionFormat
		want   string
	}{
		{CompressionFormatYUY2, "YUY2"},
		{CompressionFormatNV12, "NV12"},
		{CompressionFormatY800, "Y800"},
	}
	for _, tt := range tests {
		got, ok := tt.format.FourCC()
		if !ok || got != tt.want {
			t.Errorf("FourCC() = %q, %v, want %q", got, ok, tt.want)
		}
		// the FourCC is the little-endian first field of the GUID
		u := uuid.UUID(tt.format)
		if s := string([]byte{u[3], u[2], u[1], u[0]}); s != tt.want {
			t.Errorf("GUID %v does not carry FourCC %q", u, tt.want)
		}
	}
	unknown := CompressionFormat(uuid.MustParse("00000000-0000-0010-8000-00AA00389B71"))
	if _, ok := unknown.FourCC(); ok {
		t.Error("FourCC() of unknown GUID ok = true")
	}
	if unknown.String() != "00000000-0000-0010-8000-00aa00389b71" {
		t.Errorf("String() = %q", unknown.String())
	}
}
