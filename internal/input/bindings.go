package input

import "github.com/verte-zerg/strokebot/internal/model"

// Side identifies a button group. It is dropped when presses reach the engine.
type Side int

// Button groups.
const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Binding ties a named physical input to its role and keyboard key.
type Binding struct {
	Name string
	Side Side
	Role model.Role
	Key  rune
}

// DefaultBindings returns the six fixed inputs, three per side.
func DefaultBindings() []Binding {
	return []Binding{
		{Name: "LEFT_1", Side: SideLeft, Role: model.RoleFirst, Key: 'a'},
		{Name: "LEFT_2", Side: SideLeft, Role: model.RoleSecond, Key: 's'},
		{Name: "LEFT_3", Side: SideLeft, Role: model.RoleThird, Key: 'd'},
		{Name: "RIGHT_1", Side: SideRight, Role: model.RoleFirst, Key: 'j'},
		{Name: "RIGHT_2", Side: SideRight, Role: model.RoleSecond, Key: 'k'},
		{Name: "RIGHT_3", Side: SideRight, Role: model.RoleThird, Key: 'l'},
	}
}
