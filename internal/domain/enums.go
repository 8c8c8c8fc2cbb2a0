package domain

import (
	"fmt"
	"strings"
)

type NodeKind string

const (
	KindObjective NodeKind = "objective"
	KindKeyResult NodeKind = "key_result"
)

// Direction is the axis along which tree ranks advance.
type Direction string

const (
	DirectionLR Direction = "LR"
	DirectionTB Direction = "TB"
)

// ParseDirection accepts "LR"/"TB" in any case, plus the long names
// "horizontal" and "vertical".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lr", "horizontal":
		return DirectionLR, nil
	case "tb", "vertical":
		return DirectionTB, nil
	}
	return "", fmt.Errorf("invalid direction %q (want LR or TB)", s)
}

// Toggle returns the other direction.
func (d Direction) Toggle() Direction {
	if d == DirectionTB {
		return DirectionLR
	}
	return DirectionTB
}

func (d Direction) Label() string {
	if d == DirectionTB {
		return "vertical"
	}
	return "horizontal"
}

// Handle is the side of a node box where an edge attaches.
type Handle string

const (
	HandleLeft   Handle = "left"
	HandleRight  Handle = "right"
	HandleTop    Handle = "top"
	HandleBottom Handle = "bottom"
)

// Handles returns the (source, target) attachment sides for edges drawn in d.
func (d Direction) Handles() (source, target Handle) {
	if d == DirectionTB {
		return HandleBottom, HandleTop
	}
	return HandleRight, HandleLeft
}
