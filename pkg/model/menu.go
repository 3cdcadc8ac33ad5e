package model

// MenuDirection records which way the region menu last moved
type MenuDirection string

const (
	DirectionForward  MenuDirection = "forward"
	DirectionBackward MenuDirection = "backward"
)

// IsValid returns true if the direction is a recognized value
func (d MenuDirection) IsValid() bool {
	return d == DirectionForward || d == DirectionBackward
}

// MenuView is the state of the drill-down region menu
type MenuView int

const (
	MenuClosed MenuView = iota
	MenuRootView
	MenuSubregionView
)

// String returns a human readable name for the view
func (v MenuView) String() string {
	switch v {
	case MenuClosed:
		return "closed"
	case MenuRootView:
		return "root"
	case MenuSubregionView:
		return "subregion"
	}
	return "unknown"
}
