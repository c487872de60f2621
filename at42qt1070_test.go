package at42qt1070_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/periph/conn/i2c/i2ctest"
	"periph.io/x/periph/conn/physic"

	"github.com/cgxeiji/at42qt1070"
	"github.com/cgxeiji/at42qt1070/regmap"
)

// fullMapFixture builds a 58-byte register file image with a distinct value
// in every register.
func fullMapFixture() []byte {
	buf := make([]byte, regmap.RegisterCount)
	buf[0x00] = 0x2E // chip ID
	buf[0x01] = 0x15 // firmware version
	buf[0x02] = 0x81 // calibrating, key in detect
	buf[0x03] = 0x45 // keys 0, 2 and 6 in detect
	for k := 0; k < regmap.KeyCount; k++ {
		buf[0x04+2*k] = byte(k + 1)    // signal MS
		buf[0x05+2*k] = 0xA0 + byte(k) // signal LS
		buf[0x12+2*k] = 0x40 + byte(k) // reference MS
		buf[0x13+2*k] = 0x50 + byte(k) // reference LS
		buf[0x20+k] = 0x14 + byte(k)   // NTHR
		buf[0x27+k] = byte(k+1)<<2 | byte(k)&0x03
		buf[0x2E+k] = byte(k) // DI
	}
	buf[0x35] = 0x33 // fast out, max cal, guard key 3
	buf[0x36] = 5    // 40 ms between measurements
	buf[0x37] = 2    // 320 ms max on duration
	return buf
}

func TestSyncAll(t *testing.T) {
	p := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: at42qt1070.Addr, W: []byte{0x00}, R: fullMapFixture()},
		},
		DontPanic: true,
	}
	d := at42qt1070.NewFromBus(p, 0)

	require.NoError(t, d.SyncAll())
	require.NoError(t, p.Close(), "not all bus operations were consumed")

	major, minor := d.CachedChipID()
	require.Equal(t, uint8(0x2), major)
	require.Equal(t, uint8(0xE), minor)
	require.Equal(t, uint8(0x15), d.CachedFirmwareVersion())

	status := d.CachedDetectionStatus()
	require.True(t, status.Calibrate)
	require.False(t, status.Overflow)
	require.True(t, status.Touch)

	require.Equal(t,
		[regmap.KeyCount]bool{true, false, true, false, false, false, true},
		d.CachedAllKeyStatus())

	for k := regmap.Key0; k < regmap.KeyCount; k++ {
		require.Equal(t, uint16(k+1)<<8|uint16(0xA0+k), d.CachedKeySignal(k))
		require.Equal(t, uint16(0x40+k)<<8|uint16(0x50+k), d.CachedReferenceData(k))
		require.Equal(t, uint8(0x14+k), d.CachedNegativeThreshold(k))
		require.Equal(t, regmap.AveAKS{Ave: uint8(k + 1), AKS: uint8(k) & 0x03}, d.CachedAveAKS(k))
		require.Equal(t, uint8(k), d.CachedDetectionIntegrator(k))
	}

	require.Equal(t,
		regmap.FOMCGuard{FastOut: true, MaxCal: true, GuardChannel: 3},
		d.CachedFOMCGuard())
	require.Equal(t, 40*time.Millisecond, d.CachedLowPowerInterval())
	duration, enabled := d.CachedMaxOnDuration()
	require.True(t, enabled)
	require.Equal(t, 320*time.Millisecond, duration)
}

func TestSettersWriteSingleRegister(t *testing.T) {
	p := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: at42qt1070.Addr, W: []byte{0x23, 0x20}},
			{Addr: at42qt1070.Addr, W: []byte{0x34, 0x06}},
			{Addr: at42qt1070.Addr, W: []byte{0x35, 0x27}},
			{Addr: at42qt1070.Addr, W: []byte{0x36, 0x05}},
			{Addr: at42qt1070.Addr, W: []byte{0x37, 0x02}},
			{Addr: at42qt1070.Addr, W: []byte{0x38, 0x01}},
			{Addr: at42qt1070.Addr, W: []byte{0x39, 0x01}},
		},
		DontPanic: true,
	}
	d := at42qt1070.NewFromBus(p, 0)

	require.NoError(t, d.SetNegativeThreshold(regmap.Key3, 0x20))
	require.NoError(t, d.SetDetectionIntegrator(regmap.Key6, 6))
	require.NoError(t, d.SetFOMCGuard(true, false, regmap.GuardNone))
	require.NoError(t, d.SetLowPowerInterval(40*time.Millisecond))
	require.NoError(t, d.SetMaxOnDuration(320*time.Millisecond))
	require.NoError(t, d.StartCalibration())
	require.NoError(t, d.StartReset())
	require.NoError(t, p.Close())

	require.Equal(t, uint8(0x20), d.CachedNegativeThreshold(regmap.Key3))
	require.Equal(t, uint8(6), d.CachedDetectionIntegrator(regmap.Key6))
	require.Equal(t, 40*time.Millisecond, d.CachedLowPowerInterval())
}

func TestReadOnlyWritesSuppressed(t *testing.T) {
	rec := &i2ctest.Record{}
	d := at42qt1070.NewFromBus(rec, 0)

	for _, reg := range []regmap.Register{
		regmap.RegChipID,
		regmap.RegFirmwareVersion,
		regmap.RegDetectionStatus,
		regmap.RegKeyStatus,
		regmap.RegKeySignalMS(regmap.Key0),
		regmap.RegKeySignalLS(regmap.Key0),
		regmap.RegReferenceDataMS(regmap.Key6),
		regmap.RegReferenceDataLS(regmap.Key6),
	} {
		require.NoError(t, d.WriteRegister(reg, 0xFF), "%s", reg)
	}

	require.Empty(t, rec.Ops, "read-only writes must not reach the bus")

	// The mirror keeps whatever the last synchronization set, here the
	// power-on defaults.
	major, minor := d.CachedChipID()
	require.Equal(t, uint8(0x2), major)
	require.Equal(t, uint8(0xE), minor)
	require.Equal(t, uint8(0x15), d.CachedFirmwareVersion())
	require.Equal(t, regmap.DetectionStatus{}, d.CachedDetectionStatus())
	require.Equal(t, uint16(0), d.CachedKeySignal(regmap.Key0))
	require.Equal(t, byte(0x2E), d.RegisterByte(regmap.RegChipID))
}

func TestWriteRegisterUpdatesCache(t *testing.T) {
	rec := &i2ctest.Record{}
	d := at42qt1070.NewFromBus(rec, 0)

	require.NoError(t, d.WriteRegister(regmap.RegNegativeThreshold(regmap.Key1), 0x0A))
	require.Equal(t, uint8(0x0A), d.CachedNegativeThreshold(regmap.Key1))
	require.Len(t, rec.Ops, 1)
	require.Equal(t, []byte{0x21, 0x0A}, rec.Ops[0].W)
}

func TestPackedWritePreservesPartnerField(t *testing.T) {
	p := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: at42qt1070.Addr, W: []byte{0x29, 0x42}}, // ave 16, aks 2
			{Addr: at42qt1070.Addr, W: []byte{0x29, 0x12}}, // ave 4, aks kept
			{Addr: at42qt1070.Addr, W: []byte{0x29, 0x11}}, // aks 1, ave kept
			{Addr: at42qt1070.Addr, W: []byte{0x35, 0x23}}, // fast out, guard 3
			{Addr: at42qt1070.Addr, W: []byte{0x35, 0x33}}, // max cal added
			{Addr: at42qt1070.Addr, W: []byte{0x35, 0x37}}, // guard off, flags kept
		},
		DontPanic: true,
	}
	d := at42qt1070.NewFromBus(p, 0)

	require.NoError(t, d.SetAveAKS(regmap.Key2, 16, 2))
	require.NoError(t, d.SetAve(regmap.Key2, 4))
	require.Equal(t, uint8(2), d.CachedAveAKS(regmap.Key2).AKS)
	require.NoError(t, d.SetAKS(regmap.Key2, 1))
	require.Equal(t, uint8(4), d.CachedAveAKS(regmap.Key2).Ave)

	require.NoError(t, d.SetFOMCGuard(true, false, 3))
	require.NoError(t, d.SetMaxCal(true))
	require.Equal(t,
		regmap.FOMCGuard{FastOut: true, MaxCal: true, GuardChannel: 3},
		d.CachedFOMCGuard())
	require.NoError(t, d.SetGuardChannel(regmap.GuardNone))
	require.Equal(t,
		regmap.FOMCGuard{FastOut: true, MaxCal: true, GuardChannel: regmap.GuardNone},
		d.CachedFOMCGuard())

	// Every partner value came from the mirror: the ops above contain no
	// read transactions.
	require.NoError(t, p.Close())
}

func TestWaitUntilCalibrated(t *testing.T) {
	const busyPolls = 3

	var ops []i2ctest.IO
	for i := 0; i < busyPolls; i++ {
		ops = append(ops, i2ctest.IO{Addr: at42qt1070.Addr, W: []byte{0x02}, R: []byte{0x80}})
	}
	ops = append(ops, i2ctest.IO{Addr: at42qt1070.Addr, W: []byte{0x02}, R: []byte{0x00}})

	p := &i2ctest.Playback{Ops: ops, DontPanic: true}
	d := at42qt1070.NewFromBus(p, 0)

	require.NoError(t, d.WaitUntilCalibrated())
	require.Equal(t, busyPolls+1, p.Count, "one bus read per poll")
	require.NoError(t, p.Close())
	require.False(t, d.CachedDetectionStatus().Calibrate)
}

func TestSyncOne(t *testing.T) {
	p := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: at42qt1070.Addr, W: []byte{0x03}, R: []byte{0x02}},
			{Addr: at42qt1070.Addr, W: []byte{0x06}, R: []byte{0x03}},
			{Addr: at42qt1070.Addr, W: []byte{0x07}, R: []byte{0xE9}},
		},
		DontPanic: true,
	}
	d := at42qt1070.NewFromBus(p, 0)

	touched, err := d.KeyStatus(regmap.Key1)
	require.NoError(t, err)
	require.True(t, touched)
	require.False(t, d.CachedKeyStatus(regmap.Key0))

	signal, err := d.KeySignal(regmap.Key1)
	require.NoError(t, err)
	require.Equal(t, uint16(0x03E9), signal)
	require.NoError(t, p.Close())
}

func TestDurationConversions(t *testing.T) {
	p := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: at42qt1070.Addr, W: []byte{0x36}, R: []byte{0x00}},
			{Addr: at42qt1070.Addr, W: []byte{0x36}, R: []byte{0x05}},
			{Addr: at42qt1070.Addr, W: []byte{0x37}, R: []byte{0x00}},
			{Addr: at42qt1070.Addr, W: []byte{0x37}, R: []byte{0x02}},
		},
		DontPanic: true,
	}
	d := at42qt1070.NewFromBus(p, 0)

	// Raw 0 means the fastest rate the chip supports, not zero delay.
	interval, err := d.LowPowerInterval()
	require.NoError(t, err)
	require.Equal(t, 8*time.Millisecond, interval)

	interval, err = d.LowPowerInterval()
	require.NoError(t, err)
	require.Equal(t, 40*time.Millisecond, interval)

	// Raw 0 disables the max-on timeout.
	duration, enabled, err := d.MaxOnDuration()
	require.NoError(t, err)
	require.False(t, enabled)
	require.Equal(t, time.Duration(0), duration)

	duration, enabled, err = d.MaxOnDuration()
	require.NoError(t, err)
	require.True(t, enabled)
	require.Equal(t, 320*time.Millisecond, duration)
	require.NoError(t, p.Close())
}

func TestProbe(t *testing.T) {
	p := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: at42qt1070.Addr, W: []byte{0x00}, R: []byte{0x2E}},
			{Addr: at42qt1070.Addr, W: []byte{0x00}, R: []byte{0x11}},
		},
		DontPanic: true,
	}
	d := at42qt1070.NewFromBus(p, 0)

	require.NoError(t, d.Probe())
	require.ErrorIs(t, d.Probe(), at42qt1070.ErrNotDevice)
	require.NoError(t, p.Close())
}

// failingBus fails every transaction with a fixed error.
type failingBus struct {
	err error
}

func (b *failingBus) String() string                  { return "failing" }
func (b *failingBus) SetSpeed(physic.Frequency) error { return nil }
func (b *failingBus) Tx(uint16, []byte, []byte) error { return b.err }

func TestBusErrorsPassThrough(t *testing.T) {
	errBoom := errors.New("bus stuck")
	d := at42qt1070.NewFromBus(&failingBus{err: errBoom}, 0)

	require.Equal(t, errBoom, d.SyncAll())
	require.Equal(t, errBoom, d.Sync(regmap.RegKeyStatus))
	require.Equal(t, errBoom, d.SetNegativeThreshold(regmap.Key0, 0x10))
	require.Equal(t, errBoom, d.StartCalibration())
	require.Equal(t, errBoom, d.WaitUntilCalibrated())

	_, err := d.KeySignal(regmap.Key4)
	require.Equal(t, errBoom, err)
}
