// Package uvc is a camera driver that talks to USB Video Class devices
// directly over USB, detaching the kernel's uvcvideo driver while streaming.
//
// Importing the package registers the driver under the name "uvc".
package uvc

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	usb "github.com/kevmo314/go-usb"

	camerata "github.com/kevmo314/go-camerata"
)

const (
	classVideo         = 0x0E
	classMiscellaneous = 0xEF
	subclassCommon     = 0x02
	protocolIAD        = 0x01
)

func init() {
	camerata.Register(&Driver{})
}

type Driver struct{}

func (*Driver) Name() string { return "uvc" }

func (*Driver) Init() error { return nil }

func (*Driver) Devices() ([]camerata.DeviceInfo, error) {
	devs, err := usb.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("list usb devices: %w", err)
	}
	var infos []camerata.DeviceInfo
	for _, dev := range devs {
		d := dev.Descriptor
		video := d.DeviceClass == classVideo ||
			d.DeviceClass == classMiscellaneous && d.DeviceSubClass == subclassCommon && d.DeviceProtocol == protocolIAD
		if !video {
			continue
		}
		id := fmt.Sprintf("%04x:%04x", d.VendorID, d.ProductID)
		info := camerata.DeviceInfo{Name: id, Misc: dev.Path + " " + id}
		if s := dev.SysfsStrings; s != nil {
			if s.Product != "" {
				info.Name = s.Product
			}
			info.Description = s.Manufacturer
		}
		glog.V(2).Infof("uvc: candidate %s at %s", info.Name, dev.Path)
		infos = append(infos, info)
	}
	return infos, nil
}

func (*Driver) Open(info camerata.DeviceInfo, cfg camerata.Config) (camerata.Device, error) {
	path, _, _ := strings.Cut(info.Misc, " ")
	if path == "" {
		return nil, fmt.Errorf("uvc: no device path for %q", info.Name)
	}
	d, err := openDevice(path, cfg)
	if err != nil {
		return nil, err
	}
	return d, nil
}
