// Package at42qt1070 is a driver for the Microchip/Atmel AT42QT1070 QTouch
// seven-key capacitive touch sensor connected over I²C.
//
// The driver keeps a typed mirror of the chip's 58 registers (see the regmap
// subpackage) and synchronizes it with the device either one register at a
// time or in a single full-map read. Every getter comes in two flavors: a
// Cached variant that returns the last synchronized value without touching
// the bus, and a plain variant that reads the register first. Setters update
// the mirror and write the affected register; registers the device treats as
// read-only are never written.
//
// A Device is not safe for concurrent use. If it is shared between
// goroutines, for example a poll loop and an interrupt handler, the caller
// must serialize access.
package at42qt1070

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/cgxeiji/at42qt1070/regmap"
)

// Addr is the fixed 7-bit I²C address of the AT42QT1070.
const Addr uint16 = 0x1B

var (
	// ErrNotDevice is thrown when the chip ID read during Probe does not
	// match an AT42QT1070 signature (0x2E).
	ErrNotDevice error = errors.New("at42qt1070: chip ID does not match (0x2E)")
)

// Device defines an AT42QT1070 device.
type Device struct {
	dev  *i2c.Dev
	bus  i2c.BusCloser
	regs regmap.RegisterMap

	busName string
	addr    uint16
}

// New opens the I²C bus and returns a new AT42QT1070 device. The register
// mirror starts out holding the chip's power-on reset values; no bus
// transaction happens until the first synchronization or write. Use Probe to
// verify the chip is actually present.
//
// By default the first available bus and the fixed device address 0x1B are
// used; see OnBus and OnAddr.
func New(opts ...Option) (*Device, error) {
	d := &Device{
		regs: regmap.Default(),
		addr: Addr,
	}
	for _, opt := range opts {
		opt(d)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("at42qt1070: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(d.busName)
	if err != nil {
		return nil, fmt.Errorf("at42qt1070: could not open I2C bus: %w", err)
	}

	d.bus = bus
	d.dev = &i2c.Dev{
		Addr: d.addr,
		Bus:  bus,
	}

	return d, nil
}

// NewFromBus returns a device on an already-open bus. The caller keeps
// ownership of the bus; Close on the returned device is a no-op. If addr is
// 0, the default device address is used.
func NewFromBus(bus i2c.Bus, addr uint16) *Device {
	if addr == 0 {
		addr = Addr
	}
	return &Device{
		dev:  &i2c.Dev{Addr: addr, Bus: bus},
		regs: regmap.Default(),
		addr: addr,
	}
}

// Close closes the bus owned by the device.
func (d *Device) Close() error {
	if d.bus == nil {
		return nil
	}
	return d.bus.Close()
}

// Probe reads the chip ID register and returns ErrNotDevice if it does not
// match the AT42QT1070 signature.
func (d *Device) Probe() error {
	major, minor, err := d.ChipID()
	if err != nil {
		return err
	}
	if major != 0x2 || minor != 0xE {
		return ErrNotDevice
	}
	return nil
}

// SyncAll reads the whole register file in one bus transaction and decodes
// every register into the mirror, in address order. On a bus error the
// mirror is left untouched.
func (d *Device) SyncAll() error {
	buf, err := d.readAllRegs()
	if err != nil {
		return err
	}
	for addr := 0; addr < regmap.RegisterCount; addr++ {
		reg, _ := regmap.RegisterAt(byte(addr))
		d.regs.Decode(reg, buf[addr])
	}
	return nil
}

// Sync reads a single register from the device and decodes it into the
// mirror. Reading any register also deasserts the chip's CHANGE line.
func (d *Device) Sync(reg regmap.Register) error {
	b, err := d.readReg(reg.Addr())
	if err != nil {
		return err
	}
	d.regs.Decode(reg, b)
	return nil
}

// ReadRegister synchronizes a single register and returns its raw byte.
func (d *Device) ReadRegister(reg regmap.Register) (byte, error) {
	if err := d.Sync(reg); err != nil {
		return 0, err
	}
	return d.regs.Encode(reg), nil
}

// RegisterByte returns the raw byte the mirror currently holds for a
// register, i.e. the value a write of that register would carry. No bus
// traffic.
func (d *Device) RegisterByte(reg regmap.Register) byte {
	return d.regs.Encode(reg)
}

// WriteRegister decodes a raw byte into the mirror and writes it to the
// device. Writes to read-only registers are suppressed: the mirror and the
// bus are left untouched and no error is returned, matching the device's
// own behavior of ignoring such writes.
func (d *Device) WriteRegister(reg regmap.Register, value byte) error {
	if !reg.Writable() {
		return nil
	}
	d.regs.Decode(reg, value)
	return d.flush(reg)
}

// flush writes the mirror's current value of a register to the device,
// skipping registers the device does not accept writes to.
func (d *Device) flush(reg regmap.Register) error {
	if !reg.Writable() {
		return nil
	}
	return d.write(reg.Addr(), d.regs.Encode(reg))
}

// readReg reads a single byte from a register address.
func (d *Device) readReg(addr byte) (byte, error) {
	b := make([]byte, 1)
	if err := d.dev.Tx([]byte{addr}, b); err != nil {
		return 0, err
	}
	return b[0], nil
}

// readAllRegs reads the full register file starting at address 0.
func (d *Device) readAllRegs() ([]byte, error) {
	b := make([]byte, regmap.RegisterCount)
	if err := d.dev.Tx([]byte{0}, b); err != nil {
		return nil, err
	}
	return b, nil
}

// write writes a byte to a register address.
func (d *Device) write(addr, value byte) error {
	n, err := d.dev.Write([]byte{addr, value})
	if err != nil {
		return err
	}
	n-- // remove register address byte
	if n != 1 {
		return fmt.Errorf("at42qt1070: wrong number of bytes written: want %d, got %d", 1, n)
	}
	return nil
}
