// Package v4l2 is a camera driver for Linux video4linux capture devices.
// Importing it registers the driver under the name "v4l2". On other
// platforms the package is empty.
package v4l2
