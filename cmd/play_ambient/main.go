// Command play_ambient runs the generative performance headless: live
// through the audio device, or bounced to a WAV file with -render.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/davidgilbertson/beatparakeet"
	"github.com/davidgilbertson/beatparakeet/internal/arrange"
	"github.com/davidgilbertson/beatparakeet/internal/config"
)

type args struct {
	BPM      float64 `arg:"--bpm" default:"96" help:"tempo in beats per minute"`
	Swing    float64 `arg:"--swing" default:"0.12" help:"shuffle amount 0..0.75"`
	Energy   float64 `arg:"--energy" default:"0.5" help:"dynamics knob 0..1"`
	Seed     int64   `arg:"--seed" default:"1" help:"random seed for a reproducible performance"`
	Terminal bool    `arg:"--terminal" help:"play the arrangement once and fade out instead of looping"`
	Settings string  `arg:"--settings" help:"YAML settings file; flags above are ignored when set"`
	Render   string  `arg:"--render" help:"bounce to this WAV file instead of playing live"`
	Seconds  float64 `arg:"--seconds" default:"60" help:"bounce length when rendering"`
	Quiet    bool    `arg:"--quiet" help:"suppress bar events, print section changes only"`
}

func (args) Description() string {
	return "generative ambient performance engine"
}

func main() {
	var a args
	arg.MustParse(&a)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	opts := []beatparakeet.Option{
		beatparakeet.WithBPM(a.BPM),
		beatparakeet.WithSwing(a.Swing),
		beatparakeet.WithEnergy(a.Energy),
		beatparakeet.WithSeed(a.Seed),
	}
	if a.Terminal {
		opts = append(opts, beatparakeet.WithMode(arrange.ModeTerminal))
	}
	if a.Settings != "" {
		s, err := config.Load(a.Settings)
		if err != nil {
			slog.Error("load settings", "path", a.Settings, "err", err)
			os.Exit(1)
		}
		opts = append(opts, beatparakeet.WithSettings(s))
	}

	if a.Render != "" {
		if err := renderToFile(a.Render, a.Seconds, opts); err != nil {
			slog.Error("render failed", "err", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %.0fs to %s\n", a.Seconds, a.Render)
		return
	}

	p, err := beatparakeet.NewPlayer(opts...)
	if err != nil {
		slog.Error("player setup failed", "err", err)
		os.Exit(1)
	}
	events := p.Watch()
	if err := p.Play(); err != nil {
		slog.Error("audio device unavailable", "err", err)
		os.Exit(1)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Info("fading out")
		p.FadeOut(4)
		<-sigs
		p.Stop()
	}()

	for ev := range events {
		switch ev.Kind {
		case beatparakeet.EventBar:
			if !a.Quiet {
				slog.Info("bar", "bar", ev.Bar, "section", ev.Section, "chord", ev.Chord)
			}
		case beatparakeet.EventSection:
			slog.Info("section", "bar", ev.Bar, "section", ev.Section)
		case beatparakeet.EventProgression:
			slog.Info("progression", "bar", ev.Bar, "progression", ev.Progression)
		case beatparakeet.EventFade:
			slog.Info("terminal fade scheduled", "bar", ev.Bar)
		case beatparakeet.EventStopped:
			return
		}
	}
}

func renderToFile(path string, seconds float64, opts []beatparakeet.Option) error {
	samples, err := beatparakeet.Render(seconds, opts...)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return beatparakeet.WriteWAV(f, samples, beatparakeet.DefaultSampleRate)
}
