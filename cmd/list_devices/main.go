package main

import (
	"flag"
	"fmt"
	"slices"

	"github.com/golang/glog"
	usb "github.com/kevmo314/go-usb"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/internal/cli"
)

func main() {
	driver := flag.String("driver", "", "only list devices from this driver")
	raw := flag.Bool("usb", false, "also list every USB device with a video interface")
	cli.Parse()

	fmt.Printf("Drivers: %v\n\n", camerata.Drivers())

	devices, err := camerata.Query(camerata.WithDriver(*driver))
	if err != nil {
		glog.Exitf("Failed to list devices: %v", err)
	}
	if len(devices) == 0 {
		fmt.Println("No cameras found")
	}
	for _, d := range devices {
		fmt.Printf("Device %d: %s\n", d.Index, d.Name)
		if d.Description != "" {
			fmt.Printf("  Description: %s\n", d.Description)
		}
		fmt.Printf("  Driver: %s\n", d.Driver)
		fmt.Printf("  Misc: %s\n", d.Misc)
		fmt.Printf("  Usable: %v\n\n", camerata.CheckCanUse(d.Index, camerata.WithDriver(*driver)))
	}

	if *raw {
		listUSB()
	}
}

func listUSB() {
	devices, err := usb.DeviceList()
	if err != nil {
		glog.Exitf("Failed to list USB devices: %v", err)
	}
	fmt.Printf("Found %d USB device(s)\n\n", len(devices))
	for _, dev := range devices {
		d := dev.Descriptor
		handle, err := dev.Open()
		if err != nil {
			glog.V(1).Infof("%s: %v", dev.Path, err)
			continue
		}
		config, err := handle.GetActiveConfigDescriptor()
		handle.Close()
		if err != nil {
			continue
		}
		var video []string
		for _, iface := range config.Interfaces {
			for _, alt := range iface.AltSettings {
				if n := fmt.Sprint(alt.InterfaceNumber); alt.InterfaceClass == 14 && !slices.Contains(video, n) {
					video = append(video, n)
				}
			}
		}
		if len(video) == 0 {
			continue
		}
		fmt.Printf("%s  %04x:%04x  USB %d.%02d  class %d/%d/%d\n", dev.Path, d.VendorID, d.ProductID,
			d.USBVersion>>8, d.USBVersion&0xFF, d.DeviceClass, d.DeviceSubClass, d.DeviceProtocol)
		if s := dev.SysfsStrings; s != nil {
			fmt.Printf("  %s %s (serial %q)\n", s.Manufacturer, s.Product, s.Serial)
		}
		fmt.Printf("  Video interfaces: %v\n", video)
	}
}
