// Package all registers every driver this module ships.
//
//	import _ "github.com/kevmo314/go-camerata/drivers/all"
package all

import (
	_ "github.com/kevmo314/go-camerata/drivers/uvc"
	_ "github.com/kevmo314/go-camerata/drivers/v4l2"
)
