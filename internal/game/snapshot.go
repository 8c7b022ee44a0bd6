package game

import "time"

// Snapshot is the session's state flattened to plain data, suitable for
// the spectator feed and for clients that only read. It is a copy; holding
// one never pins a live resource.
type Snapshot struct {
	Tick        uint64             `json:"tick"`
	State       string             `json:"state"`
	Level       string             `json:"level"`
	LevelName   string             `json:"level_name,omitempty"`
	PlayerX     float64            `json:"player_x"`
	PlayerY     float64            `json:"player_y"`
	PlayerW     float64            `json:"player_w"`
	PlayerH     float64            `json:"player_h"`
	PlayerColor string             `json:"player_color"`
	VelX        float64            `json:"vel_x"`
	VelY        float64            `json:"vel_y"`
	Grounded    bool               `json:"grounded"`
	CamX        float64            `json:"cam_x"`
	CamY        float64            `json:"cam_y"`
	ViewW       float64            `json:"view_w"`
	ViewH       float64            `json:"view_h"`
	Platforms   int                `json:"platforms"`
	Geometry    []PlatformSnapshot `json:"geometry,omitempty"`
	Reloads     int                `json:"reloads"`
}

// PlatformSnapshot is one platform's rectangle and fill color.
type PlatformSnapshot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color string  `json:"color"`
}

// Snapshot captures the current state. It works in every state, including
// quit after a failed reload (the geometry fields are then zero).
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    s.tick,
		State:   s.state.String(),
		Level:   s.levelID(),
		Reloads: s.reloads,
	}

	p := s.player()
	snap.PlayerX = p.Pos().X()
	snap.PlayerY = p.Pos().Y()
	snap.PlayerW = p.Rect().W
	snap.PlayerH = p.Rect().H
	snap.PlayerColor = p.Color().Hex()
	snap.VelX = p.Vel().X()
	snap.VelY = p.Vel().Y()
	snap.Grounded = p.Grounded()

	cam := s.camera()
	snap.CamX = cam.Center().X()
	snap.CamY = cam.Center().Y()
	snap.ViewW = cam.View().X()
	snap.ViewH = cam.View().Y()

	if lvl := s.geometry(); lvl != nil {
		snap.LevelName = lvl.Name
		snap.Platforms = len(lvl.Platforms)
		snap.Geometry = make([]PlatformSnapshot, len(lvl.Platforms))
		for i, pf := range lvl.Platforms {
			snap.Geometry[i] = PlatformSnapshot{
				X:     pf.Rect.X,
				Y:     pf.Rect.Y,
				W:     pf.Rect.W,
				H:     pf.Rect.H,
				Color: pf.Color.Hex(),
			}
		}
	}

	return snap
}

// Stats summarizes a finished (or running) session for the run history.
type Stats struct {
	Level    string
	Outcome  string // "quit" or "reload-failed"
	Duration time.Duration
	Jumps    int
	Reloads  int
}

// Stats reports the session's counters. Outcome distinguishes a normal
// quit from a session killed by a failed reload.
func (s *Session) Stats() Stats {
	outcome := "quit"
	if s.reloadFailed {
		outcome = "reload-failed"
	}

	return Stats{
		Level:    s.levelID(),
		Outcome:  outcome,
		Duration: time.Since(s.started),
		Jumps:    s.jumps,
		Reloads:  s.reloads,
	}
}
