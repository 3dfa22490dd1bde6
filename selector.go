package camerata

import (
	"slices"
)

// SelectFormat picks a capture mode for enc out of modes, which maps each
// resolution to the frame rates the device offers at it.
//
// Every resolution contributes one candidate at its highest frame rate. The
// candidates, ordered by width then height, are folded pairwise: when both
// reach suggestedFPS the wider one is kept, otherwise the faster one is. Ties
// keep the candidate seen first. This is a greedy heuristic and not an optimum
// search; a candidate discarded by one comparison is never reconsidered.
//
// ok is false when modes offers no frame rate at all.
func SelectFormat(enc Encoding, modes map[Resolution][]uint32, suggestedFPS uint32) (Format, bool) {
	candidates := make([]Format, 0, len(modes))
	for res, rates := range modes {
		if len(rates) == 0 {
			continue
		}
		candidates = append(candidates, Format{
			Width:     res.Width,
			Height:    res.Height,
			FrameRate: slices.Max(rates),
			Encoding:  enc,
		})
	}
	slices.SortFunc(candidates, func(a, b Format) int {
		if a.Width != b.Width {
			return int(a.Width) - int(b.Width)
		}
		return int(a.Height) - int(b.Height)
	})
	return ReduceFormats(candidates, suggestedFPS)
}

// ReduceFormats folds candidates left to right with the comparison described
// on SelectFormat.
func ReduceFormats(candidates []Format, suggestedFPS uint32) (Format, bool) {
	if len(candidates) == 0 {
		return Format{}, false
	}
	acc := candidates[0]
	for _, cur := range candidates[1:] {
		var keep bool
		if min(acc.FrameRate, cur.FrameRate) >= suggestedFPS {
			keep = acc.Width >= cur.Width
		} else {
			keep = acc.FrameRate >= cur.FrameRate
		}
		if !keep {
			acc = cur
		}
	}
	return acc, true
}

// compatibleFormat runs the selector against a device, falling back to the
// device's active format when it advertises nothing usable. The caller holds
// the device lock.
func compatibleFormat(dev Device, suggestedFPS uint32) (Format, error) {
	encodings, err := dev.Encodings()
	if err != nil {
		return Format{}, err
	}
	for _, enc := range encodings {
		if enc == EncodingUnknown {
			continue
		}
		modes, err := dev.Modes(enc)
		if err != nil {
			return Format{}, err
		}
		if f, ok := SelectFormat(enc, modes, suggestedFPS); ok {
			return f, nil
		}
		break
	}
	return dev.Format(), nil
}
