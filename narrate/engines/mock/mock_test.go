package mock

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dgnsrekt/scriptcast/narrate"
	"github.com/dgnsrekt/scriptcast/narrate/audio"
)

func TestSynthesizeWAV(t *testing.T) {
	e := New()
	out, err := e.Synthesize(context.Background(), narrate.SynthesisRequest{
		Text:      "hello",
		Container: narrate.ContainerWAV,
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if !audio.HasWAVMarkers(out) {
		t.Fatal("WAV output must carry RIFF/WAVE markers")
	}
	wantData := len("hello") * 2
	if got := len(out); got != audio.WAVHeaderSize+wantData {
		t.Errorf("output length = %d, want %d", got, audio.WAVHeaderSize+wantData)
	}
	riff, data := audio.WAVSizes(out)
	if int(data) != wantData {
		t.Errorf("data size field = %d, want %d", data, wantData)
	}
	if int(riff) != len(out)-8 {
		t.Errorf("riff size field = %d, want %d", riff, len(out)-8)
	}
	if !bytes.Equal(out[audio.WAVHeaderSize:], make([]byte, wantData)) {
		t.Error("payload should be silence")
	}
}

func TestSynthesizeMP3IncludesCallAndText(t *testing.T) {
	e := New()
	req := narrate.SynthesisRequest{Text: "one", Container: narrate.ContainerMP3}
	first, _ := e.Synthesize(context.Background(), req)
	second, _ := e.Synthesize(context.Background(), req)

	if string(first) != "MP3[1:one]" {
		t.Errorf("first call = %q", first)
	}
	if string(second) != "MP3[2:one]" {
		t.Errorf("second call = %q", second)
	}
}

func TestSynthesizeUnsupportedContainer(t *testing.T) {
	e := New()
	_, err := e.Synthesize(context.Background(), narrate.SynthesisRequest{
		Text:      "x",
		Container: narrate.Container("ogg"),
	})
	if !errors.Is(err, narrate.ErrUnsupportedContainer) {
		t.Errorf("expected ErrUnsupportedContainer, got %v", err)
	}
}

func TestFailOnCall(t *testing.T) {
	sentinel := errors.New("boom")
	e := New(FailOnCall(2, sentinel))
	req := narrate.SynthesisRequest{Text: "x", Container: narrate.ContainerWAV}

	if _, err := e.Synthesize(context.Background(), req); err != nil {
		t.Fatalf("call 1 should succeed: %v", err)
	}
	if _, err := e.Synthesize(context.Background(), req); !errors.Is(err, sentinel) {
		t.Fatalf("call 2 should fail with sentinel, got %v", err)
	}
	if _, err := e.Synthesize(context.Background(), req); err != nil {
		t.Fatalf("call 3 should succeed again: %v", err)
	}
}

func TestFailOnCallDefaultsToSynthesisError(t *testing.T) {
	e := New(FailOnCall(1, nil))
	_, err := e.Synthesize(context.Background(), narrate.SynthesisRequest{
		Text: "x", Container: narrate.ContainerWAV,
	})
	if !errors.Is(err, narrate.ErrSynthesisFailed) {
		t.Errorf("expected ErrSynthesisFailed, got %v", err)
	}
}

func TestShutdownRejectsFurtherCalls(t *testing.T) {
	e := New()
	req := narrate.SynthesisRequest{Text: "x", Container: narrate.ContainerWAV}

	if _, err := e.Synthesize(context.Background(), req); err != nil {
		t.Fatalf("pre-shutdown call failed: %v", err)
	}
	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if _, err := e.Synthesize(context.Background(), req); !errors.Is(err, narrate.ErrEngineShutdown) {
		t.Errorf("expected ErrEngineShutdown, got %v", err)
	}
	if e.CallCount() != 1 {
		t.Errorf("rejected calls must not be counted, got %d", e.CallCount())
	}
}

func TestRequestsRecordedInOrder(t *testing.T) {
	e := New()
	for _, text := range []string{"a", "b", "c"} {
		e.Synthesize(context.Background(), narrate.SynthesisRequest{
			Text: text, Container: narrate.ContainerWAV,
		})
	}

	reqs := e.Requests()
	if len(reqs) != 3 {
		t.Fatalf("expected 3 recorded requests, got %d", len(reqs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if reqs[i].Text != want {
			t.Errorf("request %d text = %q, want %q", i, reqs[i].Text, want)
		}
	}
}

func TestConcurrentCalls(t *testing.T) {
	e := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Synthesize(context.Background(), narrate.SynthesisRequest{
				Text: "x", Container: narrate.ContainerWAV,
			})
		}()
	}
	wg.Wait()

	if e.CallCount() != 16 {
		t.Errorf("call count = %d, want 16", e.CallCount())
	}
}

func TestCapabilities(t *testing.T) {
	e := New(WithMaxTextLength(128))
	caps := e.Capabilities()
	if caps.MaxTextLength != 128 {
		t.Errorf("MaxTextLength = %d, want 128", caps.MaxTextLength)
	}
	if caps.RequiresNetwork {
		t.Error("mock engine must not require network")
	}
	if !caps.Supports(narrate.ContainerWAV) || !caps.Supports(narrate.ContainerMP3) {
		t.Error("mock engine should support wav and mp3")
	}
	if caps.Supports(narrate.Container("ogg")) {
		t.Error("unknown container should not be supported")
	}
}
