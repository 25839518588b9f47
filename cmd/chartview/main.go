// Command chartview is an authoring aid: it compiles a chart script and
// renders the commands around a beat cursor so choreography can be checked
// shape by shape. The cursor is moved by hand (arrows, page keys); nothing
// is clock-driven and no audio is involved.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	songmap "github.com/cbegin/songmap-go"
	"github.com/cbegin/songmap-go/internal/chart"
	"github.com/cbegin/songmap-go/internal/geom"
)

const (
	windowW = 640
	windowH = 480

	// World space is the ±50 square; one world unit is four pixels.
	worldScale = 4.0

	// How long each enemy stays on screen around its spawn beat.
	bulletTravel = 4.0
	laserLinger  = 1.0
	bombLinger   = 1.5
)

var (
	bgColor     = color.RGBA{16, 16, 24, 255}
	gridColor   = color.RGBA{40, 44, 58, 255}
	bulletColor = color.RGBA{255, 80, 80, 255}
	laserColor  = color.RGBA{120, 200, 255, 255}
	warmupColor = color.RGBA{70, 90, 110, 255}
	bombColor   = color.RGBA{255, 200, 60, 255}
	playerColor = color.RGBA{120, 255, 120, 255}
)

// The viewer has no simulation, so the symbolic player position resolves to
// a fixed marker near the bottom of the square.
var playerPos = [2]float64{0, -30}

type game struct {
	cmds   []chart.Command
	cursor float64
	step   float64
}

func (g *game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.cursor += g.step
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.cursor = math.Max(0, g.cursor-g.step)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.cursor += 4
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.cursor = math.Max(0, g.cursor-4)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.cursor = 0
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	g.drawFrame(screen)

	for _, c := range g.cmds {
		g.drawCommand(screen, c)
	}

	px, py := toScreen(playerPos[0], playerPos[1])
	drawCircle(screen, px, py, 6, playerColor)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("beat %.2f  (step %.2f)", g.cursor, g.step), 8, 8)
	ebitenutil.DebugPrintAt(screen, "arrows: step  pgup/pgdn: measure  home: start", 8, windowH-20)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return windowW, windowH
}

func (g *game) drawFrame(screen *ebiten.Image) {
	x0, y0 := toScreen(-50, 50)
	x1, y1 := toScreen(50, -50)
	ebitenutil.DrawLine(screen, x0, y0, x1, y0, gridColor)
	ebitenutil.DrawLine(screen, x0, y1, x1, y1, gridColor)
	ebitenutil.DrawLine(screen, x0, y0, x0, y1, gridColor)
	ebitenutil.DrawLine(screen, x1, y0, x1, y1, gridColor)
}

func (g *game) drawCommand(screen *ebiten.Image, c chart.Command) {
	switch c.Kind {
	case chart.CmdBullet:
		t := (g.cursor - c.Beat) / bulletTravel
		if t < 0 || t > 1 {
			return
		}
		sx, sy := posToWorld(c.Start)
		ex, ey := posToWorld(c.End)
		x, y := toScreen(sx+(ex-sx)*t, sy+(ey-sy)*t)
		drawCircle(screen, x, y, 3, bulletColor)
	case chart.CmdLaser:
		col, ok := laserPhaseColor(g.cursor, c)
		if !ok {
			return
		}
		ax, ay := posToWorld(c.Start)
		rad := c.Angle * math.Pi / 180
		bx, by := ax+200*math.Cos(rad), ay+200*math.Sin(rad)
		drawWorldLine(screen, ax-200*math.Cos(rad), ay-200*math.Sin(rad), bx, by, col)
	case chart.CmdLaserPoints:
		col, ok := laserPhaseColor(g.cursor, c)
		if !ok {
			return
		}
		ax, ay := posToWorld(c.A)
		bx, by := posToWorld(c.B)
		dx, dy := bx-ax, by-ay
		// Extend through both points across the whole square.
		drawWorldLine(screen, ax-dx*10, ay-dy*10, bx+dx*10, by+dy*10, col)
	case chart.CmdBomb:
		if g.cursor < c.Beat-bombLinger || g.cursor > c.Beat+0.5 {
			return
		}
		x, y := posToWorld(c.Start)
		sx, sy := toScreen(x, y)
		grow := geom.Clamp(1-(c.Beat-g.cursor)/bombLinger, 0, 1)
		drawCircle(screen, sx, sy, 4+10*geom.EaseInExpo(grow), bombColor)
	}
}

// laserPhaseColor picks the warmup or firing color for a laser near the
// cursor, or reports that it is off screen.
func laserPhaseColor(cursor float64, c chart.Command) (color.Color, bool) {
	armAt := c.Beat - c.Warmup
	switch {
	case c.Warmup > 0 && cursor >= armAt && cursor < c.Beat:
		return warmupColor, true
	case cursor >= c.Beat-laserLinger && cursor <= c.Beat+laserLinger:
		return laserColor, true
	default:
		return nil, false
	}
}

func posToWorld(p chart.Pos) (float64, float64) {
	if p.Kind == chart.PosPlayer {
		return playerPos[0], playerPos[1]
	}
	return p.Point.X(), p.Point.Y()
}

// toScreen maps world space (origin centered, y up) to screen space.
func toScreen(x, y float64) (float64, float64) {
	return windowW/2 + x*worldScale, windowH/2 - y*worldScale
}

func drawWorldLine(screen *ebiten.Image, x0, y0, x1, y1 float64, col color.Color) {
	sx0, sy0 := toScreen(x0, y0)
	sx1, sy1 := toScreen(x1, y1)
	ebitenutil.DrawLine(screen, sx0, sy0, sx1, sy1, col)
}

func drawCircle(screen *ebiten.Image, cx, cy, r float64, col color.Color) {
	const segments = 16
	for i := 0; i < segments; i++ {
		a0 := float64(i) / segments * 2 * math.Pi
		a1 := float64(i+1) / segments * 2 * math.Pi
		ebitenutil.DrawLine(screen,
			cx+r*math.Cos(a0), cy+r*math.Sin(a0),
			cx+r*math.Cos(a1), cy+r*math.Sin(a1), col)
	}
}

func main() {
	var (
		chartPath = flag.String("file", "", "path to a chart script")
		seed      = flag.Int64("seed", 0, "seed for the random spawners")
		step      = flag.Float64("step", 1, "beats per arrow key press")
	)
	flag.Parse()

	if *chartPath == "" {
		log.Fatal("chartview: -file is required")
	}
	m, err := songmap.BuildFile(*chartPath, songmap.WithSeed(*seed))
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("chartview")
	if err := ebiten.RunGame(&game{cmds: m.Commands(), step: *step}); err != nil {
		log.Fatal(err)
	}
}
