// Command loop_scan finds a seamless loop region in a rendered WAV file
// and optionally writes the trimmed loop back out.
package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/davidgilbertson/beatparakeet/internal/looppoint"
)

type args struct {
	In  string  `arg:"positional,required" help:"input WAV file"`
	Min float64 `arg:"--min" default:"4" help:"minimum loop length in seconds"`
	Out string  `arg:"--out" help:"write the trimmed loop to this WAV file"`
}

func (args) Description() string {
	return "scan a rendered WAV for a seamless loop region"
}

func main() {
	var a args
	arg.MustParse(&a)

	clip, err := looppoint.ReadClip(a.In)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", a.In, err)
		os.Exit(1)
	}
	loop, err := looppoint.Scan(clip, a.Min)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan %s: %v\n", a.In, err)
		os.Exit(1)
	}

	fmt.Printf("loop %.3fs .. %.3fs (%.3fs, score %.3f)\n",
		loop.StartSeconds(), loop.EndSeconds(),
		loop.EndSeconds()-loop.StartSeconds(), loop.Score)

	if a.Out != "" {
		if err := clip.WriteClip(a.Out, loop.Start, loop.End); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", a.Out, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", a.Out)
	}
}
