package chart

import "encoding/json"

// JSON serialization for the songmap handed to the game. Each command is a
// flat object carrying its kind tag, the two common fields, and only the
// payload fields its kind uses. Map-based encoding keeps key order sorted
// and therefore byte-stable across runs.

// MarshalJSON encodes a literal point as {"x":..,"y":..} and the player
// token as the string "player".
func (p Pos) MarshalJSON() ([]byte, error) {
	if p.Kind == PosPlayer {
		return json.Marshal("player")
	}
	return json.Marshal(map[string]float64{"x": p.Point.X(), "y": p.Point.Y()})
}

func (c Command) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		"kind": c.Kind.String(),
		"beat": c.Beat,
	}
	switch c.Kind {
	case CmdBPM, CmdSkip:
		obj["value"] = c.Value
		return json.Marshal(obj)
	}
	obj["enemygroup"] = c.Group
	switch c.Kind {
	case CmdBullet, CmdBomb:
		obj["start"] = c.Start
		if c.Kind == CmdBullet {
			obj["end"] = c.End
		}
	case CmdLaser:
		obj["start"] = c.Start
		obj["angle"] = c.Angle
		if c.Warmup != 0 {
			obj["warmup"] = c.Warmup
		}
	case CmdLaserPoints:
		obj["a"] = c.A
		obj["b"] = c.B
		if c.Warmup != 0 {
			obj["warmup"] = c.Warmup
		}
	case CmdRotationOn:
		obj["center"] = c.Start
		obj["start_angle"] = c.StartAngle
		obj["end_angle"] = c.EndAngle
		obj["duration"] = c.Duration
	case CmdRender, CmdHitbox:
		obj["on"] = c.On
	}
	return json.Marshal(obj)
}

func (m *Songmap) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"commands": m.cmds})
}
