package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rivo/tview"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/internal/cli"
	"github.com/kevmo314/go-camerata/pkg/decode"
	"github.com/kevmo314/go-camerata/pkg/sharpness"
)

type Display struct {
	frame atomic.Value
}

func (g *Display) Update() error {
	return nil
}

func (g *Display) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.frame.Load().(*ebiten.Image), &ebiten.DrawImageOptions{})
}

func (g *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	frame := g.frame.Load().(*ebiten.Image)
	return frame.Bounds().Dx(), frame.Bounds().Dy()
}

// inspector owns the session being previewed. Selecting another format
// replaces it, since a session streams only once.
type inspector struct {
	mu      sync.Mutex
	index   int
	session *camerata.Session
	track   atomic.Uint32
}

func (in *inspector) open(index int) (*camerata.Session, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.track.Add(1)
	if in.session != nil {
		if err := in.session.Close(); err != nil {
			log.Printf("closing session: %s", err)
		}
		in.session = nil
	}
	s, err := camerata.New(index)
	if err != nil {
		return nil, err
	}
	in.index = index
	in.session = s
	return s, nil
}

func (in *inspector) close() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.track.Add(1)
	if in.session != nil {
		in.session.Close()
		in.session = nil
	}
}

func main() {
	render := flag.Bool("render", false, "render the frames to screen (higher performance but requires a display)")
	cli.Parse()

	devices, err := camerata.Query()
	if err != nil {
		panic(err)
	}

	app := tview.NewApplication()
	in := &inspector{}
	defer in.close()

	deviceList := tview.NewList()
	deviceList.SetBorder(true).SetTitle("Devices")

	formats := tview.NewList()
	formats.SetBorder(true).SetTitle("Formats")

	controls := tview.NewList()
	controls.SetBorder(true).SetTitle("Controls")

	secondColumn := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(formats, 0, 1, false).
		AddItem(controls, 0, 1, false)

	preview := tview.NewImage()
	preview.SetColors(256).SetDithering(tview.DitheringNone).SetBorder(true).SetTitle("Preview")

	logText := tview.NewTextView()
	logText.SetMaxLines(10).SetBorder(true).SetTitle("Log")

	log.SetOutput(logText)

	stream := func(s *camerata.Session, track uint32) {
		var g *Display
		if *render {
			g = &Display{}
		}
		t0 := time.Now().Add(-1 * time.Second)
		var seen uint64
		for in.track.Load() == track {
			if err := s.CheckErr(); err != nil {
				log.Printf("capture failed: %s", err)
				return
			}
			n := s.FrameCount()
			frame, ok := s.PollFrame()
			if !ok || n == seen {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			seen = n
			img := frame.Image()
			if g != nil {
				if g.frame.Swap(ebiten.NewImageFromImage(img)) == nil {
					go func() {
						if err := ebiten.RunGame(g); err != nil {
							log.Printf("ebiten error: %s", err)
						}
					}()
				}
				continue
			}
			t1 := time.Now()
			if t1.Sub(t0) < 50*time.Millisecond {
				continue
			}
			t0 = t1
			w := 64
			h := frame.Height * w / max(frame.Width, 1)
			preview.SetImage(decode.Scale(img, w, h))
			preview.SetTitle(fmt.Sprintf("Preview (frame %d, focus %.3f)", n, sharpness.Score(img)))
			app.ForceDraw()
		}
	}

	showControls := func(s *camerata.Session) {
		controls.Clear()
		for _, c := range s.Controls() {
			d := c.Descriptor()
			controls.AddItem(d.Name, fmt.Sprintf("%s [%d, %d] default %d", d.Kind, d.Min, d.Max, d.Default), 0, func() {
				input := tview.NewInputField()
				input.SetLabel(fmt.Sprintf("%s (%d-%d): ", d.Name, d.Min, d.Max)).
					SetFieldWidth(10).
					SetAcceptanceFunc(tview.InputFieldInteger).
					SetDoneFunc(func(key tcell.Key) {
						defer func() {
							secondColumn.RemoveItem(input)
							app.SetFocus(controls)
						}()
						if key != tcell.KeyEnter {
							return
						}
						v, err := strconv.ParseInt(input.GetText(), 10, 64)
						if err != nil {
							log.Printf("failed parsing value %s", err)
							return
						}
						if err := c.Set(v); err != nil {
							log.Printf("control request failed %s", err)
						}
					})
				secondColumn.AddItem(input, 1, 0, false)
				app.SetFocus(input)
			})
		}
	}

	for _, d := range devices {
		usable := "in use"
		if d.CanOpen() {
			usable = "available"
		}
		deviceList.AddItem(d.Name, fmt.Sprintf("%s, %s", d.Driver, usable), 0, func() {
			s, err := in.open(d.Index)
			if err != nil {
				log.Printf("error opening device: %s", err)
				return
			}
			fs, err := s.Formats()
			if err != nil {
				log.Printf("error listing formats: %s", err)
				return
			}
			formats.Clear()
			for _, f := range fs {
				formats.AddItem(f.String(), fmt.Sprintf("%d bytes/frame", f.Encoding.FrameSize(int(f.Width), int(f.Height))), 0, func() {
					// the listing session is spent once it streams
					s := s
					if s.State() != camerata.StateIdle {
						if s, err = in.open(d.Index); err != nil {
							log.Printf("error reopening device: %s", err)
							return
						}
					}
					if err := s.Open(f); err != nil {
						log.Printf("error starting capture: %s", err)
						return
					}
					log.Printf("streaming %v from %s", f, d.Name)
					go stream(s, in.track.Load())
					showControls(s)
					app.SetFocus(controls)
				})
			}
			showControls(s)
			app.SetFocus(formats)
		})
	}

	flex := tview.NewFlex().
		AddItem(deviceList, 0, 1, true).
		AddItem(secondColumn, 0, 1, false)

	if !*render {
		flex.AddItem(preview, 0, 3, false)
	}

	if err := app.SetRoot(tview.NewFlex().SetDirection(tview.FlexRow).AddItem(flex, 0, 1, true).AddItem(logText, 10, 0, false), true).Run(); err != nil {
		panic(err)
	}
}
