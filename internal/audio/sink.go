// Package audio opens the host's audio device and streams PCM samples
// to it. cmd/nescore writes one frame of zero-valued samples per frame;
// the sink is not connected to internal/apu. The pack's go.mod manifests list
// ebitengine/oto as the emulator ecosystem's audio library of choice;
// no pack source exercises its API directly, so the player/reader
// wiring below follows oto/v3's own published usage (see DESIGN.md).
package audio

import (
	"bytes"
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// Sink streams PCM samples to the default audio device.
type Sink struct {
	ctx    *oto.Context
	player *oto.Player
	stream *streamBuffer
}

// NewSink opens the host's default audio device at sampleRate, stereo,
// 16-bit little-endian PCM — the format Write converts its float
// samples to.
func NewSink(sampleRate int) (*Sink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: open device: %w", err)
	}
	<-ready

	stream := &streamBuffer{}
	s := &Sink{ctx: ctx, stream: stream, player: ctx.NewPlayer(stream)}
	s.player.Play()
	return s, nil
}

// Write encodes one frame's worth of silent (stub APU) float samples
// as 16-bit PCM and queues them for playback.
func (s *Sink) Write(samples []float32) error {
	buf := make([]byte, len(samples)*2*2) // stereo, 2 bytes/sample
	for i, v := range samples {
		clamped := int16(v * 32767)
		lo, hi := byte(clamped), byte(clamped>>8)
		buf[i*4], buf[i*4+1] = lo, hi
		buf[i*4+2], buf[i*4+3] = lo, hi
	}
	s.stream.feed(buf)
	return nil
}

// Close stops playback and releases the player.
func (s *Sink) Close() error {
	return s.player.Close()
}

// streamBuffer is an io.Reader oto.Player pulls queued PCM bytes from;
// feed appends newly written samples ahead of the read cursor.
type streamBuffer struct {
	buf bytes.Buffer
}

func (s *streamBuffer) feed(p []byte) { s.buf.Write(p) }

func (s *streamBuffer) Read(p []byte) (int, error) {
	n, _ := s.buf.Read(p)
	if n < len(p) {
		for i := n; i < len(p); i++ {
			p[i] = 0
		}
		n = len(p)
	}
	return n, nil
}
