package physics

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/metalgearsloth/tickphys/common"
)

// scriptDispatch routes a compiled controller script to the right hook. The
// script defines before(body, dt) and after(body, dt); either may be a no-op.
const scriptDispatch = `
if __phase == "before" {
	before(__body, __dt)
} else if __phase == "after" {
	after(__body, __dt)
}
`

// ScriptController runs a tengo script as a body controller. The script sees
// a body map with vx/vy/mass/on_ground and writes vx/vy/fx/fy back.
type ScriptController struct {
	compiled *tengo.Compiled
}

// NewScriptController compiles controller source once; hooks reuse the
// compiled program.
func NewScriptController(src []byte) (*ScriptController, error) {
	script := tengo.NewScript(append(append([]byte{}, src...), []byte("\n"+scriptDispatch)...))
	_ = script.Add("__phase", "")
	_ = script.Add("__body", map[string]any{})
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("physics: compile controller script: %w", err)
	}
	return &ScriptController{compiled: compiled}, nil
}

func (sc *ScriptController) BeforeSolve(b *Body, dt float64) {
	sc.run("before", b, dt)
}

func (sc *ScriptController) AfterSolve(b *Body, dt float64) {
	sc.run("after", b, dt)
}

func (sc *ScriptController) run(phase string, b *Body, dt float64) {
	if sc == nil || sc.compiled == nil || b == nil {
		return
	}
	pos, rot := b.position()
	in := map[string]any{
		"vx":        b.vel.X,
		"vy":        b.vel.Y,
		"fx":        0.0,
		"fy":        0.0,
		"x":         pos.X,
		"y":         pos.Y,
		"rotation":  rot,
		"mass":      b.mass,
		"on_ground": b.onGround,
	}
	if err := sc.compiled.Set("__phase", phase); err != nil {
		return
	}
	if err := sc.compiled.Set("__body", in); err != nil {
		return
	}
	if err := sc.compiled.Set("__dt", dt); err != nil {
		return
	}
	if err := sc.compiled.Run(); err != nil {
		log.Printf("physics: body %d controller script %s error: %v", b.id, phase, err)
		return
	}

	out := sc.compiled.Get("__body").Map()
	if vx, ok := toFloat(out["vx"]); ok {
		b.vel.X = vx
	}
	if vy, ok := toFloat(out["vy"]); ok {
		b.vel.Y = vy
	}
	fx, okX := toFloat(out["fx"])
	fy, okY := toFloat(out["fy"])
	if (okX && fx != 0) || (okY && fy != 0) {
		b.ApplyForce(common.Vec2{X: fx, Y: fy})
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
