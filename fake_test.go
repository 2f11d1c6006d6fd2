package vl53l1x

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// regWrite is one register write transaction seen by the fake device
type regWrite struct {
	addr uint8
	reg  uint16
	data []byte
}

// fakeDevice simulates the sensor register file.  Writes store their value
// bytes at ascending addresses, reads return bytes from the last selected
// register on.
type fakeDevice struct {
	mem    map[uint16]byte
	writes []regWrite
	reads  map[uint16]int
	ptr    uint16

	opened []uint8
	buses  []*fakeBus

	failWrite map[uint16]error
	failRead  error
	failOpen  map[uint8]error

	// onRead is called before a read from the selected register
	onRead func(reg uint16)
}

func newFakeDevice() *fakeDevice {

	d := &fakeDevice{
		mem:       make(map[uint16]byte),
		reads:     make(map[uint16]int),
		failWrite: make(map[uint16]error),
		failOpen:  make(map[uint8]error),
	}

	// booted
	d.mem[FIRMWARE_SYSTEM_STATUS] = 0x01
	d.set16(IDENTIFICATION_MODEL_ID, 0xEACC)

	return d
}

func (d *fakeDevice) open(addr uint8) (Bus, error) {

	if err := d.failOpen[addr]; err != nil {
		return nil, err
	}

	d.opened = append(d.opened, addr)
	b := &fakeBus{dev: d, addr: addr}
	d.buses = append(d.buses, b)

	return b, nil
}

func (d *fakeDevice) set16(reg uint16, val uint16) {
	d.mem[reg] = byte(val >> 8)
	d.mem[reg+1] = byte(val)
}

func (d *fakeDevice) get16(reg uint16) uint16 {
	return uint16(d.mem[reg])<<8 | uint16(d.mem[reg+1])
}

// writesTo returns the values written to reg in order
func (d *fakeDevice) writesTo(reg uint16) [][]byte {

	var out [][]byte

	for _, w := range d.writes {
		if w.reg == reg {
			out = append(out, w.data)
		}
	}

	return out
}

// reset forgets recorded transactions
func (d *fakeDevice) reset() {
	d.writes = nil
	d.reads = make(map[uint16]int)
}

type fakeBus struct {
	dev    *fakeDevice
	addr   uint8
	closed bool
}

func (b *fakeBus) WriteBytes(buf []byte) (int, error) {

	if b.closed {
		return 0, errors.New("bus closed")
	}

	reg := uint16(buf[0])<<8 | uint16(buf[1])

	if len(buf) == 2 {
		b.dev.ptr = reg
		return 2, nil
	}

	if err := b.dev.failWrite[reg]; err != nil {
		return 0, err
	}

	data := append([]byte(nil), buf[2:]...)
	b.dev.writes = append(b.dev.writes, regWrite{addr: b.addr, reg: reg, data: data})

	for i, value := range data {
		b.dev.mem[reg+uint16(i)] = value
	}

	return len(buf), nil
}

func (b *fakeBus) ReadBytes(buf []byte) (int, error) {

	if b.closed {
		return 0, errors.New("bus closed")
	}

	if b.dev.failRead != nil {
		return 0, b.dev.failRead
	}

	if b.dev.onRead != nil {
		b.dev.onRead(b.dev.ptr)
	}

	b.dev.reads[b.dev.ptr]++

	for i := range buf {
		buf[i] = b.dev.mem[b.dev.ptr+uint16(i)]
	}

	return len(buf), nil
}

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

// fakeClock advances only when slept on
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

// fakePin records every level driven on it
type fakePin struct {
	levels []gpio.Level
	halted bool
}

func (p *fakePin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	return nil
}

func (p *fakePin) Halt() error {
	p.halted = true
	return nil
}

// newTestSensor constructs a sensor on a fresh fake device at the default
// address and forgets the transactions made during construction
func newTestSensor(t *testing.T) (*VL53L1X, *fakeDevice, *fakeClock) {

	t.Helper()

	dev := newFakeDevice()
	clk := newFakeClock()

	v, err := New(Config{Opener: dev.open, Clock: clk})

	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dev.reset()
	clk.sleeps = nil

	return v, dev, clk
}
