package at42qt1070

import (
	"time"

	"github.com/cgxeiji/at42qt1070/regmap"
)

// Time units of the two interval registers, per datasheet.
const (
	lpModeUnit        = 8 * time.Millisecond
	maxOnDurationUnit = 160 * time.Millisecond
)

// NegativeThreshold reads a key's NTHR register: how far the signal must
// fall below the reference before the key counts as touched.
func (d *Device) NegativeThreshold(k regmap.Key) (uint8, error) {
	if err := d.Sync(regmap.RegNegativeThreshold(k)); err != nil {
		return 0, err
	}
	return d.regs.NegativeThreshold[k], nil
}

// CachedNegativeThreshold returns the last synchronized NTHR of a key.
func (d *Device) CachedNegativeThreshold(k regmap.Key) uint8 {
	return d.regs.NegativeThreshold[k]
}

// SetNegativeThreshold sets a key's touch threshold. The datasheet advises
// against thresholds below 5.
func (d *Device) SetNegativeThreshold(k regmap.Key, threshold uint8) error {
	d.regs.NegativeThreshold[k] = threshold
	return d.flush(regmap.RegNegativeThreshold(k))
}

// AveAKS reads a key's shared averaging/suppression register.
func (d *Device) AveAKS(k regmap.Key) (regmap.AveAKS, error) {
	if err := d.Sync(regmap.RegAveAKS(k)); err != nil {
		return regmap.AveAKS{}, err
	}
	return d.regs.AveAKS[k], nil
}

// CachedAveAKS returns the last synchronized averaging factor and AKS group
// of a key.
func (d *Device) CachedAveAKS(k regmap.Key) regmap.AveAKS {
	return d.regs.AveAKS[k]
}

// SetAveAKS sets both the averaging factor and the AKS group of a key in
// one register write. Valid averaging factors are 1, 2, 4, 8, 16 and 32;
// AKS groups are 0 (none) to 3.
func (d *Device) SetAveAKS(k regmap.Key, ave, aks uint8) error {
	d.regs.AveAKS[k] = regmap.AveAKS{Ave: ave, AKS: aks}
	return d.flush(regmap.RegAveAKS(k))
}

// SetAve sets a key's averaging factor, keeping its cached AKS group. The
// two fields share one register, so the companion field is taken from the
// mirror rather than read back over the bus.
func (d *Device) SetAve(k regmap.Key, ave uint8) error {
	return d.SetAveAKS(k, ave, d.regs.AveAKS[k].AKS)
}

// SetAKS sets a key's adjacent key suppression group, keeping its cached
// averaging factor.
func (d *Device) SetAKS(k regmap.Key, aks uint8) error {
	return d.SetAveAKS(k, d.regs.AveAKS[k].Ave, aks)
}

// DetectionIntegrator reads a key's DI register: the number of consecutive
// measurements that must confirm a touch before it is reported.
func (d *Device) DetectionIntegrator(k regmap.Key) (uint8, error) {
	if err := d.Sync(regmap.RegDetectionIntegrator(k)); err != nil {
		return 0, err
	}
	return d.regs.DetectionIntegrator[k], nil
}

// CachedDetectionIntegrator returns the last synchronized DI of a key.
func (d *Device) CachedDetectionIntegrator(k regmap.Key) uint8 {
	return d.regs.DetectionIntegrator[k]
}

// SetDetectionIntegrator sets a key's detection integrator count.
func (d *Device) SetDetectionIntegrator(k regmap.Key, di uint8) error {
	d.regs.DetectionIntegrator[k] = di
	return d.flush(regmap.RegDetectionIntegrator(k))
}

// FOMCGuard reads the shared fast-out/max-cal/guard-channel register.
func (d *Device) FOMCGuard() (regmap.FOMCGuard, error) {
	if err := d.Sync(regmap.RegFOMCGuard); err != nil {
		return regmap.FOMCGuard{}, err
	}
	return d.regs.FOMCGuard, nil
}

// CachedFOMCGuard returns the last synchronized fast-out/max-cal/guard
// settings.
func (d *Device) CachedFOMCGuard() regmap.FOMCGuard {
	return d.regs.FOMCGuard
}

// SetFOMCGuard sets all three fields of the FO_MC_GUARD register in one
// write. Pass regmap.GuardNone to disable the guard channel.
func (d *Device) SetFOMCGuard(fastOut, maxCal bool, guard uint8) error {
	d.regs.FOMCGuard = regmap.FOMCGuard{FastOut: fastOut, MaxCal: maxCal, GuardChannel: guard}
	return d.flush(regmap.RegFOMCGuard)
}

// SetFastOut sets the fast-out flag, keeping the cached values of the other
// two fields sharing the register.
func (d *Device) SetFastOut(fastOut bool) error {
	g := d.regs.FOMCGuard
	return d.SetFOMCGuard(fastOut, g.MaxCal, g.GuardChannel)
}

// SetMaxCal sets the max-cal flag, keeping the cached values of the other
// two fields sharing the register.
func (d *Device) SetMaxCal(maxCal bool) error {
	g := d.regs.FOMCGuard
	return d.SetFOMCGuard(g.FastOut, maxCal, g.GuardChannel)
}

// SetGuardChannel selects the guard key (0 to 6, or regmap.GuardNone for
// none), keeping the cached values of the other two fields sharing the
// register.
func (d *Device) SetGuardChannel(guard uint8) error {
	g := d.regs.FOMCGuard
	return d.SetFOMCGuard(g.FastOut, g.MaxCal, guard)
}

// LowPowerInterval reads the LP mode register and returns the interval
// between key measurements. The register counts in units of 8 ms; the raw
// value 0 selects the fastest rate the chip supports, 8 ms.
func (d *Device) LowPowerInterval() (time.Duration, error) {
	if err := d.Sync(regmap.RegLowPowerMode); err != nil {
		return 0, err
	}
	return d.CachedLowPowerInterval(), nil
}

// CachedLowPowerInterval returns the last synchronized measurement
// interval.
func (d *Device) CachedLowPowerInterval() time.Duration {
	if d.regs.LowPowerMode == 0 {
		return lpModeUnit
	}
	return time.Duration(d.regs.LowPowerMode) * lpModeUnit
}

// SetLowPowerInterval sets the interval between key measurements. The
// interval is rounded down to a multiple of 8 ms and capped at 2.04 s.
func (d *Device) SetLowPowerInterval(interval time.Duration) error {
	raw := interval / lpModeUnit
	if raw > 0xFF {
		raw = 0xFF
	}
	d.regs.LowPowerMode = uint8(raw)
	return d.flush(regmap.RegLowPowerMode)
}

// MaxOnDuration reads the max-on duration register and returns how long a
// key may stay in detect before the chip recalibrates. The second return
// value is false when the timeout is disabled (raw value 0).
func (d *Device) MaxOnDuration() (time.Duration, bool, error) {
	if err := d.Sync(regmap.RegMaxOnDuration); err != nil {
		return 0, false, err
	}
	duration, enabled := d.CachedMaxOnDuration()
	return duration, enabled, nil
}

// CachedMaxOnDuration returns the last synchronized max-on timeout. The
// second return value is false when the timeout is disabled.
func (d *Device) CachedMaxOnDuration() (time.Duration, bool) {
	if d.regs.MaxOnDuration == 0 {
		return 0, false
	}
	return time.Duration(d.regs.MaxOnDuration) * maxOnDurationUnit, true
}

// SetMaxOnDuration sets the maximum continuous detection time before a
// forced recalibration. The duration is rounded down to a multiple of
// 160 ms and capped at 40.8 s; a duration shorter than 160 ms disables the
// timeout entirely.
func (d *Device) SetMaxOnDuration(duration time.Duration) error {
	raw := duration / maxOnDurationUnit
	if raw > 0xFF {
		raw = 0xFF
	}
	d.regs.MaxOnDuration = uint8(raw)
	return d.flush(regmap.RegMaxOnDuration)
}

// StartCalibration asks the chip to recalibrate all keys. The chip sets the
// calibrate flag in the detection status register while the calibration
// runs; use WaitUntilCalibrated to block until it finishes.
func (d *Device) StartCalibration() error {
	d.regs.Calibrate = 0x01
	return d.flush(regmap.RegCalibrate)
}

// StartReset forces a full device reset. The chip takes about 125 ms to
// come back up and its registers return to their power-on values.
func (d *Device) StartReset() error {
	d.regs.Reset = 0x01
	return d.flush(regmap.RegReset)
}

// WaitUntilCalibrated polls the detection status register until the
// calibrate flag clears. It has no timeout: it returns only when the
// calibration finishes or the bus fails. A caller needing a bounded wait
// must impose its own deadline around this call.
func (d *Device) WaitUntilCalibrated() error {
	for {
		if err := d.Sync(regmap.RegDetectionStatus); err != nil {
			return err
		}
		if !d.regs.DetectionStatus.Calibrate {
			return nil
		}
	}
}
