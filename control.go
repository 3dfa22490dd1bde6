package camerata

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Control adjusts one device setting. It does not keep its session's device
// alive: once the session is closed, SetValue with a value fails with
// ErrControlUnavailable instead of touching the device.
type Control struct {
	session uuid.UUID
	desc    ControlDescriptor
	active  atomic.Bool
}

func (c *Control) Name() string { return c.desc.Name }

func (c *Control) Descriptor() ControlDescriptor { return c.desc }

// Active reports whether the last SetValue call carried a value.
func (c *Control) Active() bool { return c.active.Load() }

// ValueRange returns the bounds and step of an integer control. Other kinds
// have no meaningful range and return ErrControlKindUnsupported.
func (c *Control) ValueRange() (min, max, step int64, err error) {
	if c.desc.Kind != ControlKindInteger {
		return 0, 0, 0, errorf(KindControlKindUnsupported, "value range", "%s is a %s control", c.desc.Name, c.desc.Kind)
	}
	return c.desc.Min, c.desc.Max, c.desc.Step, nil
}

// SetValue writes *v to the device and marks the control active. A nil v marks
// the control inactive without touching the device and always succeeds.
func (c *Control) SetValue(v *int64) error {
	if v == nil {
		c.active.Store(false)
		return nil
	}
	c.active.Store(true)
	err := withDevice(c.session, func(dev Device) error {
		return dev.SetControl(c.desc, *v)
	})
	switch {
	case errors.Is(err, errDeviceClosed):
		return newError(KindControlUnavailable, "set "+c.desc.Name, err)
	case err != nil:
		return fmt.Errorf("set %s: %w", c.desc.Name, err)
	}
	glog.V(1).Infof("camerata: session %s: %s = %d", c.session, c.desc.Name, *v)
	return nil
}

func (c *Control) Set(v int64) error { return c.SetValue(&v) }

// Reset marks the control inactive. It never fails.
func (c *Control) Reset() error { return c.SetValue(nil) }

// SetFraction sets an integer control to the step nearest to fraction f of its
// range, where 0 is the minimum and 1 the maximum.
func (c *Control) SetFraction(f float64) error {
	if f < 0 || f > 1 || math.IsNaN(f) {
		return fmt.Errorf("fraction %v out of [0, 1]", f)
	}
	v, err := c.fractionValue(f)
	if err != nil {
		return err
	}
	return c.Set(v)
}

func (c *Control) fractionValue(f float64) (int64, error) {
	lo, hi, step, err := c.ValueRange()
	if err != nil {
		return 0, err
	}
	if step <= 0 {
		step = 1
	}
	if hi < lo {
		return 0, fmt.Errorf("%s has an empty range [%d, %d]", c.desc.Name, lo, hi)
	}
	n := (hi - lo) / step
	return lo + int64(math.Round(f*float64(n)))*step, nil
}
