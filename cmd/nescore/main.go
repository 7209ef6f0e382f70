// Command nescore runs the NES core against a real window: load an
// iNES ROM, wire it into a Console, and drive it from ebiten's
// Update/Draw loop.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"

	"nescore/internal/audio"
	"nescore/internal/cartridge"
	"nescore/internal/config"
	"nescore/internal/console"
	"nescore/internal/video"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (defaults used when omitted)")
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: nescore [-config path] <rom.nes>")
		os.Exit(2)
	}
	romPath := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			glog.Fatalf("nescore: %v", err)
		}
		cfg = loaded
	}

	cart, err := cartridge.Load(romPath)
	if err != nil {
		glog.Fatalf("nescore: failed to load %s: %v", romPath, err)
	}

	nes := console.New(cart)
	backend := video.NewEbitenBackend(cfg)

	var sink *audio.Sink
	if cfg.Audio.Enabled {
		sink, err = audio.NewSink(cfg.Audio.SampleRate)
		if err != nil {
			glog.Warningf("nescore: audio disabled: %v", err)
			sink = nil
		}
	}

	game := &emulatorGame{console: nes, backend: backend, sink: sink, cfg: cfg}
	if err := ebiten.RunGame(game); err != nil {
		glog.Fatalf("nescore: %v", err)
	}
}

// emulatorGame adapts a Console and its I/O backends to ebiten.Game.
type emulatorGame struct {
	console *console.Console
	backend *video.EbitenBackend
	sink    *audio.Sink
	cfg     *config.Config
}

func (g *emulatorGame) Update() error {
	if g.backend.ShouldClose() {
		return ebiten.Termination
	}

	input := g.backend.PollInput()
	var mask uint8
	for i, held := range input {
		if held {
			mask |= 1 << i
		}
	}
	g.console.SetButtonState(0, mask)

	g.console.RunFrame()
	if g.console.Halted() {
		return fmt.Errorf("CPU halted on a KIL/JAM opcode")
	}

	if err := g.backend.Present(g.console.Framebuffer()); err != nil {
		return err
	}
	if g.sink != nil {
		samples := make([]float32, g.cfg.Audio.SampleRate/60)
		if err := g.sink.Write(samples); err != nil {
			glog.Warningf("nescore: audio write: %v", err)
		}
	}
	return nil
}

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	op.GeoM.Scale(float64(w)/256, float64(h)/240)
	screen.DrawImage(g.backend.Image(), op)
}

func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
