package runtime

import "github.com/aretw0/fomod/pkg/domain"

// Cursor tracks the current wizard step by its document index, so it stays
// on the same step when the visible list around it changes.
type Cursor struct {
	step int
}

// NewCursor places the cursor on the first visible step.
func NewCursor(visible []domain.StepRef) Cursor {
	if len(visible) == 0 {
		return Cursor{step: -1}
	}
	return Cursor{step: visible[0].Index}
}

// CursorAt places the cursor on document index step and re-clamps it.
func CursorAt(step int, visible []domain.StepRef) Cursor {
	c := Cursor{step: step}
	c.Reclamp(visible)
	return c
}

// Step returns the document index of the current step, or -1.
func (c Cursor) Step() int {
	return c.step
}

// Position returns the index of the current step within visible, or -1.
func (c Cursor) Position(visible []domain.StepRef) int {
	return indexOf(visible, c.step)
}

// Reclamp moves the cursor back into visible. When the current step is no
// longer visible the cursor falls back to the nearest preceding visible step.
// Only when no visible step precedes it does it land on the first visible one.
func (c *Cursor) Reclamp(visible []domain.StepRef) {
	if len(visible) == 0 {
		c.step = -1
		return
	}
	if indexOf(visible, c.step) >= 0 {
		return
	}
	fallback := visible[0].Index
	for _, ref := range visible {
		if ref.Index > c.step {
			break
		}
		fallback = ref.Index
	}
	c.step = fallback
}

// Forward advances one visible step when canContinue holds. On the last
// visible step it stays put. It reports whether the cursor moved.
func (c *Cursor) Forward(visible []domain.StepRef, canContinue bool) bool {
	pos := c.Position(visible)
	if pos < 0 || !canContinue {
		return false
	}
	if pos+1 >= len(visible) {
		return false
	}
	c.step = visible[pos+1].Index
	return true
}

// Backward moves back one visible step, stopping at the first one.
// It reports whether the cursor moved.
func (c *Cursor) Backward(visible []domain.StepRef) bool {
	pos := c.Position(visible)
	if pos <= 0 {
		return false
	}
	c.step = visible[pos-1].Index
	return true
}
