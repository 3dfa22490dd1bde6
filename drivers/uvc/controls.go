package uvc

import (
	"fmt"

	"github.com/golang/glog"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/pkg/descriptors"
	"github.com/kevmo314/go-camerata/pkg/requests"
)

// codec is what the processing unit and camera terminal selectors share.
type codec interface {
	String() string
	Size() int
	Kind() descriptors.ValueKind
	Decode([]byte) (int64, error)
	Encode(int64) []byte
}

type entityControl struct {
	entity   uint8
	selector uint8
	codec    codec
}

// supported lists the controls the device advertises, keyed by the
// descriptor ID handed out in Controls.
func (d *device) supported() map[uint32]entityControl {
	out := make(map[uint32]entityControl)
	if pu := d.config.ProcessingUnit; pu != nil {
		for _, sel := range descriptors.ProcessingUnitControlSelectors {
			if pu.Supports(sel) {
				c := entityControl{pu.UnitID, uint8(sel), sel}
				out[c.id()] = c
			}
		}
	}
	if ct := d.config.CameraTerminal; ct != nil {
		for _, sel := range descriptors.CameraTerminalControlSelectors {
			if ct.Supports(sel) {
				c := entityControl{ct.TerminalID, uint8(sel), sel}
				out[c.id()] = c
			}
		}
	}
	return out
}

func (c entityControl) id() uint32 { return uint32(c.entity)<<8 | uint32(c.selector) }

func (d *device) target(c entityControl) requests.Target {
	return requests.Target{Interface: d.config.ControlInterface, Entity: c.entity, Selector: c.selector}
}

func (d *device) get(c entityControl, code requests.RequestCode) (int64, error) {
	raw, err := requests.Get(d.handle, code, d.target(c), c.codec.Size())
	if err != nil {
		return 0, err
	}
	return c.codec.Decode(raw)
}

func (d *device) Controls() ([]camerata.ControlDescriptor, error) {
	var out []camerata.ControlDescriptor
	for id, c := range d.supported() {
		desc := camerata.ControlDescriptor{Name: c.codec.String(), ID: id}
		switch c.codec.Kind() {
		case descriptors.ValueKindBoolean:
			desc.Kind = camerata.ControlKindBoolean
			desc.Max, desc.Step = 1, 1
			desc.Default, _ = d.get(c, requests.RequestCodeGetDef)
			out = append(out, desc)
			continue
		case descriptors.ValueKindMenu:
			desc.Kind = camerata.ControlKindMenu
		default:
			desc.Kind = camerata.ControlKindInteger
		}
		var err error
		if desc.Min, err = d.get(c, requests.RequestCodeGetMin); err == nil {
			desc.Max, err = d.get(c, requests.RequestCodeGetMax)
		}
		if err != nil {
			glog.V(2).Infof("uvc: %s: skipping control %s: %v", d.path, desc.Name, err)
			continue
		}
		if desc.Step, err = d.get(c, requests.RequestCodeGetRes); err != nil || desc.Step <= 0 {
			desc.Step = 1
		}
		if desc.Default, err = d.get(c, requests.RequestCodeGetDef); err != nil {
			desc.Default = desc.Min
		}
		out = append(out, desc)
	}
	sortControls(out)
	return out, nil
}

func (d *device) SetControl(desc camerata.ControlDescriptor, value int64) error {
	c, ok := d.supported()[desc.ID]
	if !ok {
		return fmt.Errorf("uvc: control %q (id %#x) not supported", desc.Name, desc.ID)
	}
	return requests.SetCur(d.handle, d.target(c), c.codec.Encode(value))
}
