package camerata

// Driver discovers and opens cameras for one backend. Drivers register
// themselves with Register from an init function and are enabled by importing
// their package for side effects:
//
//	import _ "github.com/kevmo314/go-camerata/drivers/uvc"
type Driver interface {
	// Name is the key used by Config.Driver to select this driver.
	Name() string
	// Init performs process-wide setup. It is called at most once, from Initialize.
	Init() error
	// Devices lists the cameras currently attached. Index fields are ignored;
	// Query assigns them.
	Devices() ([]DeviceInfo, error)
	// Open connects to a device previously returned by Devices without
	// requesting any format.
	Open(info DeviceInfo, cfg Config) (Device, error)
}

// Device is a native camera connection. A session never calls its methods
// concurrently.
type Device interface {
	// Encodings lists the encodings the device can stream, most preferred first.
	Encodings() ([]Encoding, error)
	// Modes maps each resolution offered for enc to the frame rates offered at it.
	Modes(enc Encoding) (map[Resolution][]uint32, error)
	// Formats lists every mode the device offers.
	Formats() ([]Format, error)
	// Format is the mode currently in effect.
	Format() Format
	SetFormat(f Format) error
	OpenStream() error
	// ReadFrame blocks for the next raw frame in the current format.
	ReadFrame() ([]byte, error)
	Controls() ([]ControlDescriptor, error)
	SetControl(desc ControlDescriptor, value int64) error
	Close() error
}

// DeviceInfo describes an attached camera.
type DeviceInfo struct {
	Index       int
	Name        string
	Description string
	// Misc carries driver specific details such as a device path.
	Misc string
	// Driver is the name of the driver that reported the device.
	Driver string
}

type ControlKind int

const (
	ControlKindOther ControlKind = iota
	ControlKindInteger
	ControlKindBoolean
	ControlKindMenu
)

func (k ControlKind) String() string {
	switch k {
	case ControlKindInteger:
		return "integer"
	case ControlKindBoolean:
		return "boolean"
	case ControlKindMenu:
		return "menu"
	default:
		return "other"
	}
}

// ControlDescriptor describes an adjustable device setting.
type ControlDescriptor struct {
	Name string
	// ID is the driver's identifier for the control.
	ID   uint32
	Kind ControlKind
	Min  int64
	Max  int64
	Step int64
	// Default is the device's factory value, when known.
	Default int64
}
