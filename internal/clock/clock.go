package clock

import (
	"sync/atomic"
	"time"
)

type Clock interface {
	NowMillis() uint64
}

type System struct{}

func (System) NowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

type Manual struct {
	now atomic.Uint64
}

func NewManual(startMs uint64) *Manual {
	m := &Manual{}
	m.now.Store(startMs)
	return m
}

func (m *Manual) NowMillis() uint64 {
	return m.now.Load()
}

func (m *Manual) Set(ms uint64) {
	m.now.Store(ms)
}

func (m *Manual) Advance(d time.Duration) {
	m.now.Add(uint64(d.Milliseconds()))
}
