package requests

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

type call struct {
	requestType, request uint8
	value, index         uint16
	data                 []byte
}

// device answers GET requests from reply and records every call.
type device struct {
	calls []call
	reply []byte
	short bool
	err   error
}

func (d *device) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, _ time.Duration) (int, error) {
	d.calls = append(d.calls, call{requestType, request, value, index, append([]byte(nil), data...)})
	if d.err != nil {
		return 0, d.err
	}
	n := len(data)
	if requestType&0x80 != 0 {
		n = copy(data, d.reply)
	}
	if d.short {
		n--
	}
	return n, nil
}

func TestGet(t *testing.T) {
	d := &device{reply: []byte{0x34, 0x12}}
	got, err := Get(d, RequestCodeGetMax, Target{Interface: 0, Entity: 2, Selector: 0x04}, 2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0x34, 0x12}) {
		t.Errorf("Get = %x, want 3412", got)
	}
	c := d.calls[0]
	if c.requestType != 0xA1 || c.request != 0x83 || c.value != 0x0400 || c.index != 0x0200 {
		t.Errorf("call = %+v, want A1 83 0400 0200", c)
	}
}

func TestSetCur(t *testing.T) {
	d := &device{}
	if err := SetCur(d, Target{Interface: 1, Selector: 0x02}, []byte{1, 2, 3}); err != nil {
		t.Fatalf("SetCur failed: %v", err)
	}
	c := d.calls[0]
	if c.requestType != 0x21 || c.request != 0x01 || c.value != 0x0200 || c.index != 0x0001 {
		t.Errorf("call = %+v, want 21 01 0200 0001", c)
	}
	if !bytes.Equal(c.data, []byte{1, 2, 3}) {
		t.Errorf("data = %x, want 010203", c.data)
	}
}

func TestRequestErrors(t *testing.T) {
	stall := errors.New("pipe")
	if _, err := Get(&device{err: stall}, RequestCodeGetCur, Target{}, 1); !errors.Is(err, stall) {
		t.Errorf("Get err = %v, want %v", err, stall)
	}
	if _, err := Get(&device{reply: []byte{1}}, RequestCodeGetCur, Target{}, 2); err == nil {
		t.Error("short Get = nil error")
	}
	if err := SetCur(&device{short: true}, Target{}, []byte{1, 2}); err == nil {
		t.Error("short SetCur = nil error")
	}
}

func TestConfigurationDescriptor(t *testing.T) {
	desc := []byte{9, 2, 12, 0, 1, 1, 0, 0x80, 50, 3, 0xAA, 0xBB}
	d := &device{reply: desc}
	got, err := ConfigurationDescriptor(d)
	if err != nil {
		t.Fatalf("ConfigurationDescriptor failed: %v", err)
	}
	if !bytes.Equal(got, desc) {
		t.Errorf("ConfigurationDescriptor = %x, want %x", got, desc)
	}
	if len(d.calls) != 2 || d.calls[0].value != 0x0200 || len(d.calls[1].data) != 12 {
		t.Errorf("calls = %+v, want a 9 byte then a 12 byte read of descriptor 0x0200", d.calls)
	}
}

func TestRequestCodeString(t *testing.T) {
	if s := RequestCodeGetDef.String(); s != "GET_DEF" {
		t.Errorf("String() = %q, want GET_DEF", s)
	}
	if s := RequestCode(0x42).String(); s != "request 0x42" {
		t.Errorf("String() = %q", s)
	}
}
