package worker

import (
	"io"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestPoolRunsAndRecovers(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	p := New(2, log)
	var ran atomic.Int32
	p.Submit(func() { panic("provider exploded") })
	for i := 0; i < 10; i++ {
		p.Submit(func() { ran.Add(1) })
	}
	p.Close()

	if ran.Load() != 10 {
		t.Fatalf("expected 10 functions to run after a panic, got %d", ran.Load())
	}
}
