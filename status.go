package at42qt1070

import (
	"github.com/cgxeiji/at42qt1070/regmap"
)

// ChipID reads the chip ID register and returns the major and minor ID
// nibbles. An AT42QT1070 reports 0x2/0xE.
func (d *Device) ChipID() (major, minor uint8, err error) {
	if err := d.Sync(regmap.RegChipID); err != nil {
		return 0, 0, err
	}
	major, minor = d.CachedChipID()
	return major, minor, nil
}

// CachedChipID returns the last synchronized chip ID without bus traffic.
func (d *Device) CachedChipID() (major, minor uint8) {
	return d.regs.ChipID.Major, d.regs.ChipID.Minor
}

// FirmwareVersion reads the firmware version register.
func (d *Device) FirmwareVersion() (uint8, error) {
	if err := d.Sync(regmap.RegFirmwareVersion); err != nil {
		return 0, err
	}
	return d.regs.FirmwareVersion, nil
}

// CachedFirmwareVersion returns the last synchronized firmware version.
func (d *Device) CachedFirmwareVersion() uint8 {
	return d.regs.FirmwareVersion
}

// DetectionStatus reads the detection status register: the chip-wide
// calibrate, overflow and touch flags.
func (d *Device) DetectionStatus() (regmap.DetectionStatus, error) {
	if err := d.Sync(regmap.RegDetectionStatus); err != nil {
		return regmap.DetectionStatus{}, err
	}
	return d.regs.DetectionStatus, nil
}

// CachedDetectionStatus returns the last synchronized detection status.
func (d *Device) CachedDetectionStatus() regmap.DetectionStatus {
	return d.regs.DetectionStatus
}

// KeyStatus reads the key status register and reports whether the given key
// is in detect.
func (d *Device) KeyStatus(k regmap.Key) (bool, error) {
	if err := d.Sync(regmap.RegKeyStatus); err != nil {
		return false, err
	}
	return d.CachedKeyStatus(k), nil
}

// CachedKeyStatus reports whether the key was in detect at the last
// synchronization.
func (d *Device) CachedKeyStatus(k regmap.Key) bool {
	return d.regs.KeyStatus.Keys[k]
}

// AllKeyStatus reads the key status register and returns the detect flag of
// every key.
func (d *Device) AllKeyStatus() ([regmap.KeyCount]bool, error) {
	if err := d.Sync(regmap.RegKeyStatus); err != nil {
		return [regmap.KeyCount]bool{}, err
	}
	return d.regs.KeyStatus.Keys, nil
}

// CachedAllKeyStatus returns the detect flags of every key as of the last
// synchronization.
func (d *Device) CachedAllKeyStatus() [regmap.KeyCount]bool {
	return d.regs.KeyStatus.Keys
}

// KeySignal reads both halves of a key's signal register pair and returns
// the 16-bit raw signal.
func (d *Device) KeySignal(k regmap.Key) (uint16, error) {
	if err := d.Sync(regmap.RegKeySignalMS(k)); err != nil {
		return 0, err
	}
	if err := d.Sync(regmap.RegKeySignalLS(k)); err != nil {
		return 0, err
	}
	return d.regs.KeySignal(k), nil
}

// CachedKeySignal returns the last synchronized 16-bit signal of a key.
func (d *Device) CachedKeySignal(k regmap.Key) uint16 {
	return d.regs.KeySignal(k)
}

// ReferenceData reads both halves of a key's reference data register pair
// and returns the 16-bit calibration reference.
func (d *Device) ReferenceData(k regmap.Key) (uint16, error) {
	if err := d.Sync(regmap.RegReferenceDataMS(k)); err != nil {
		return 0, err
	}
	if err := d.Sync(regmap.RegReferenceDataLS(k)); err != nil {
		return 0, err
	}
	return d.regs.ReferenceData(k), nil
}

// CachedReferenceData returns the last synchronized 16-bit reference of a
// key.
func (d *Device) CachedReferenceData(k regmap.Key) uint16 {
	return d.regs.ReferenceData(k)
}
