// Command play_ambient_tui is a full-screen control surface for the
// generative performance: live bar/section/chord readout plus key
// bindings that nudge tempo, swing, energy, and the bus faders.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/gdamore/tcell/v2"

	"github.com/davidgilbertson/beatparakeet"
	"github.com/davidgilbertson/beatparakeet/internal/arrange"
	"github.com/davidgilbertson/beatparakeet/internal/automation"
	"github.com/davidgilbertson/beatparakeet/internal/config"
)

const (
	redrawInterval = 100 * time.Millisecond
	gaugeWidth     = 24

	bpmStep    = 2.0
	swingStep  = 0.02
	energyStep = 0.05
	levelStep  = 0.05
)

type args struct {
	Seed     int64  `arg:"--seed" default:"1" help:"random seed for a reproducible performance"`
	Terminal bool   `arg:"--terminal" help:"play the arrangement once and fade out instead of looping"`
	Settings string `arg:"--settings" help:"YAML settings file to load, and to save with the w key"`
}

func (args) Description() string {
	return "interactive control surface for the ambient performance engine"
}

type surface struct {
	screen  tcell.Screen
	player  *beatparakeet.Player
	path    string // settings file, "" when none
	bus     beatparakeet.Bus
	message string
	msgTime time.Time
}

func main() {
	var a args
	arg.MustParse(&a)
	// The screen owns the terminal; keep stray log output off it.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	opts := []beatparakeet.Option{beatparakeet.WithSeed(a.Seed)}
	if a.Terminal {
		opts = append(opts, beatparakeet.WithMode(arrange.ModeTerminal))
	}
	if a.Settings != "" {
		s, err := config.Load(a.Settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load settings: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, beatparakeet.WithSettings(s))
	}

	p, err := beatparakeet.NewPlayer(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "player setup failed: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal setup failed: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "terminal init failed: %v\n", err)
		os.Exit(1)
	}

	s := &surface{screen: screen, player: p, path: a.Settings}
	events := p.Watch()
	if err := p.Play(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "audio device unavailable: %v\n", err)
		os.Exit(1)
	}

	s.run(events)
	screen.Fini()
}

func (s *surface) run(events <-chan beatparakeet.Event) {
	defer s.player.Stop()

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	keys := make(chan tcell.Event, 16)
	go func() {
		for {
			keys <- s.screen.PollEvent()
		}
	}()

	s.draw()
	for {
		select {
		case ev := <-keys:
			if !s.handleInput(ev) {
				return
			}
			s.draw()
		case ev, ok := <-events:
			if !ok || ev.Kind == beatparakeet.EventStopped {
				return
			}
			if ev.Kind == beatparakeet.EventFade {
				s.note("fading out")
			}
			s.draw()
		case <-ticker.C:
			s.draw()
		}
	}
}

// handleInput returns false when the surface should shut down.
func (s *surface) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyUp {
			s.nudgeLevel(levelStep)
			return true
		}
		if ev.Key() == tcell.KeyDown {
			s.nudgeLevel(-levelStep)
			return true
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		st := s.player.Status()
		switch ev.Rune() {
		case 'q':
			return false
		case 'f':
			s.player.FadeOut(4)
			s.note("fade scheduled")
		case '[':
			s.player.SetBPM(st.BPM - bpmStep)
		case ']':
			s.player.SetBPM(st.BPM + bpmStep)
		case '{':
			s.player.SetSwing(st.Swing - swingStep)
		case '}':
			s.player.SetSwing(st.Swing + swingStep)
		case '-':
			s.player.SetEnergy(st.Energy - energyStep)
		case '=', '+':
			s.player.SetEnergy(st.Energy + energyStep)
		case '1', '2', '3', '4':
			s.bus = beatparakeet.Bus(ev.Rune() - '1')
		case 'w':
			s.save()
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *surface) nudgeLevel(delta float64) {
	s.player.SetLevel(s.bus, s.player.Level(s.bus)+delta)
}

func (s *surface) save() {
	if s.path == "" {
		s.note("no settings file (run with --settings)")
		return
	}
	if err := s.player.Settings().Save(s.path); err != nil {
		s.note("save failed: " + err.Error())
		return
	}
	s.note("saved " + s.path)
}

func (s *surface) note(msg string) {
	s.message = msg
	s.msgTime = time.Now()
}

func (s *surface) draw() {
	st := s.player.Status()
	scr := s.screen
	scr.Clear()

	title := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)
	plain := tcell.StyleDefault

	drawText(scr, 2, 1, title, "beatparakeet")
	drawText(scr, 2, 2, dim, "[ ]  bpm   { }  swing   - +  energy   1-4  bus   up/down  fader")
	drawText(scr, 2, 3, dim, "w  save settings   f  fade out   q  quit")

	drawText(scr, 2, 5, plain, fmt.Sprintf("bar %d   %s   %s", st.Bar, st.Section, st.Chord))
	drawText(scr, 2, 6, dim, fmt.Sprintf("progression %s   state %s", st.Progression, st.State))

	drawText(scr, 2, 8, plain, fmt.Sprintf("bpm    %6.1f", st.BPM))
	drawText(scr, 2, 9, plain, fmt.Sprintf("swing  %6.2f", st.Swing))
	drawGauge(scr, 2, 10, "energy", st.Energy, 1, false)

	for b := beatparakeet.Bus(0); b < automation.NumBuses; b++ {
		drawGauge(scr, 2, 12+int(b), b.String(), s.player.Level(b), 1.5, b == s.bus)
	}

	if s.message != "" && time.Since(s.msgTime) < 3*time.Second {
		drawText(scr, 2, 12+int(automation.NumBuses)+1, dim, s.message)
	}
	scr.Show()
}

func drawGauge(scr tcell.Screen, x, y int, label string, value, max float64, selected bool) {
	style := tcell.StyleDefault
	if selected {
		style = style.Bold(true)
	}
	fill := int(value / max * gaugeWidth)
	if fill < 0 {
		fill = 0
	}
	if fill > gaugeWidth {
		fill = gaugeWidth
	}
	drawText(scr, x, y, style, fmt.Sprintf("%-6s", label))
	for i := 0; i < gaugeWidth; i++ {
		r := '░'
		if i < fill {
			r = '█'
		}
		scr.SetContent(x+7+i, y, r, nil, style)
	}
	drawText(scr, x+7+gaugeWidth+1, y, style, fmt.Sprintf("%.2f", value))
}

func drawText(scr tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		scr.SetContent(x+i, y, r, nil, style)
	}
}
