// Package regmap models the register file of the AT42QT1070 QTouch sensor:
// the 58 byte-wide registers at addresses 0x00 to 0x39, the bit packing of
// the multi-field registers, and a typed in-memory mirror of the whole map.
//
// The package is transport-free. It only converts between decoded field
// values and raw register bytes; moving those bytes over the I²C bus is the
// parent package's job.
//
// Datasheet: https://ww1.microchip.com/downloads/en/DeviceDoc/Atmel-9596-AT42-QTouch-BSW-AT42QT1070_Datasheet.pdf
package regmap

// ChipID is the content of register 0x00. The major ID sits in the high
// nibble. The AT42QT1070 reads 0x2E: major 0x2, minor 0xE.
type ChipID struct {
	Major uint8
	Minor uint8
}

func (c ChipID) encode() byte {
	return c.Major<<4 | c.Minor&0x0F
}

func (c *ChipID) decode(b byte) {
	c.Major = b >> 4
	c.Minor = b & 0x0F
}

// DetectionStatus is the content of register 0x02.
//
//	bit 7: CALIBRATE, set while a calibration is in progress
//	bit 6: OVERFLOW, set when the time to acquire all signals exceeds 8 ms
//	bit 0: TOUCH, set when any key is in detect
//
// Bits 1 to 5 are reserved and always read as zero.
type DetectionStatus struct {
	Calibrate bool
	Overflow  bool
	Touch     bool
}

func (s DetectionStatus) encode() byte {
	var b byte
	if s.Calibrate {
		b |= 1 << 7
	}
	if s.Overflow {
		b |= 1 << 6
	}
	if s.Touch {
		b |= 1
	}
	return b
}

func (s *DetectionStatus) decode(b byte) {
	s.Calibrate = b&(1<<7) != 0
	s.Overflow = b&(1<<6) != 0
	s.Touch = b&1 != 0
}

// KeyStatus is the content of register 0x03: one detect flag per key in
// bits 0 to 6. Bit 7 is reserved but kept so the byte survives a
// decode/encode round trip untouched.
type KeyStatus struct {
	Reserved bool
	Keys     [KeyCount]bool
}

func (s KeyStatus) encode() byte {
	var b byte
	if s.Reserved {
		b |= 1 << 7
	}
	for i, touched := range s.Keys {
		if touched {
			b |= 1 << uint(i)
		}
	}
	return b
}

func (s *KeyStatus) decode(b byte) {
	s.Reserved = b&(1<<7) != 0
	for i := range s.Keys {
		s.Keys[i] = b&(1<<uint(i)) != 0
	}
}

// AveAKS is the content of one of the shared AVE/AKS registers at
// 0x27..0x2D: the averaging factor in bits 2 to 7 and the adjacent key
// suppression group in bits 0 and 1.
type AveAKS struct {
	Ave uint8
	AKS uint8
}

func (a AveAKS) encode() byte {
	return a.Ave<<2 | a.AKS&0x03
}

func (a *AveAKS) decode(b byte) {
	a.Ave = b >> 2
	a.AKS = b & 0x03
}

// GuardNone disables the guard channel. Values 0 to 6 select the key acting
// as guard; the datasheet treats every out-of-range value the same way, with
// 0x07 as the canonical "off" encoding.
const GuardNone uint8 = 0x07

// FOMCGuard is the content of register 0x35.
//
//	bit 5:    FO, fast out mode (DI of 4 on all keys)
//	bit 4:    MAX CAL, recalibrate all keys after a max-on timeout
//	bits 0-3: GUARD CHANNEL, key number or GuardNone
//
// Bits 6 and 7 are reserved and always read as zero.
type FOMCGuard struct {
	FastOut      bool
	MaxCal       bool
	GuardChannel uint8
}

func (g FOMCGuard) encode() byte {
	var b byte
	if g.FastOut {
		b |= 1 << 5
	}
	if g.MaxCal {
		b |= 1 << 4
	}
	return b | g.GuardChannel&0x0F
}

func (g *FOMCGuard) decode(b byte) {
	g.FastOut = b&(1<<5) != 0
	g.MaxCal = b&(1<<4) != 0
	g.GuardChannel = b & 0x0F
}

// RegisterMap is a typed mirror of the full register file. Per-key groups
// are indexed by key number; signal and reference data keep their MS and LS
// halves as the separate one-byte registers they are on the device.
type RegisterMap struct {
	ChipID              ChipID
	FirmwareVersion     uint8
	DetectionStatus     DetectionStatus
	KeyStatus           KeyStatus
	KeySignalMS         [KeyCount]uint8
	KeySignalLS         [KeyCount]uint8
	ReferenceDataMS     [KeyCount]uint8
	ReferenceDataLS     [KeyCount]uint8
	NegativeThreshold   [KeyCount]uint8
	AveAKS              [KeyCount]AveAKS
	DetectionIntegrator [KeyCount]uint8
	FOMCGuard           FOMCGuard
	LowPowerMode        uint8
	MaxOnDuration       uint8
	Calibrate           uint8
	Reset               uint8
}

// Default returns a RegisterMap holding the power-on reset values from the
// datasheet.
func Default() RegisterMap {
	m := RegisterMap{
		ChipID:          ChipID{Major: 0x2, Minor: 0xE},
		FirmwareVersion: 0x15,
		LowPowerMode:    2,   // 16 ms between measurements
		MaxOnDuration:   180, // 28.8 s
	}
	for k := 0; k < KeyCount; k++ {
		m.NegativeThreshold[k] = 0x14
		m.AveAKS[k] = AveAKS{Ave: 0x08, AKS: 0x01}
		m.DetectionIntegrator[k] = 0x04
	}
	return m
}

// Decode updates the field addressed by reg from a raw register byte. It is
// total over the full byte range; reserved bits are dropped exactly as the
// device drops them.
func (m *RegisterMap) Decode(reg Register, b byte) {
	switch reg.kind {
	case kindChipID:
		m.ChipID.decode(b)
	case kindFirmwareVersion:
		m.FirmwareVersion = b
	case kindDetectionStatus:
		m.DetectionStatus.decode(b)
	case kindKeyStatus:
		m.KeyStatus.decode(b)
	case kindKeySignalMS:
		m.KeySignalMS[reg.key] = b
	case kindKeySignalLS:
		m.KeySignalLS[reg.key] = b
	case kindReferenceDataMS:
		m.ReferenceDataMS[reg.key] = b
	case kindReferenceDataLS:
		m.ReferenceDataLS[reg.key] = b
	case kindNegativeThreshold:
		m.NegativeThreshold[reg.key] = b
	case kindAveAKS:
		m.AveAKS[reg.key].decode(b)
	case kindDetectionIntegrator:
		m.DetectionIntegrator[reg.key] = b
	case kindFOMCGuard:
		m.FOMCGuard.decode(b)
	case kindLowPowerMode:
		m.LowPowerMode = b
	case kindMaxOnDuration:
		m.MaxOnDuration = b
	case kindCalibrate:
		m.Calibrate = b
	case kindReset:
		m.Reset = b
	default:
		panic("regmap: unknown register kind")
	}
}

// Encode returns the raw byte the field addressed by reg currently holds.
// It is the inverse of Decode and is defined for read-only registers too,
// so a caller can always see the byte a write would carry.
func (m RegisterMap) Encode(reg Register) byte {
	switch reg.kind {
	case kindChipID:
		return m.ChipID.encode()
	case kindFirmwareVersion:
		return m.FirmwareVersion
	case kindDetectionStatus:
		return m.DetectionStatus.encode()
	case kindKeyStatus:
		return m.KeyStatus.encode()
	case kindKeySignalMS:
		return m.KeySignalMS[reg.key]
	case kindKeySignalLS:
		return m.KeySignalLS[reg.key]
	case kindReferenceDataMS:
		return m.ReferenceDataMS[reg.key]
	case kindReferenceDataLS:
		return m.ReferenceDataLS[reg.key]
	case kindNegativeThreshold:
		return m.NegativeThreshold[reg.key]
	case kindAveAKS:
		return m.AveAKS[reg.key].encode()
	case kindDetectionIntegrator:
		return m.DetectionIntegrator[reg.key]
	case kindFOMCGuard:
		return m.FOMCGuard.encode()
	case kindLowPowerMode:
		return m.LowPowerMode
	case kindMaxOnDuration:
		return m.MaxOnDuration
	case kindCalibrate:
		return m.Calibrate
	case kindReset:
		return m.Reset
	}
	panic("regmap: unknown register kind")
}

// KeySignal returns the cached 16-bit signal of a key, composed big-endian
// from its MS and LS registers.
func (m RegisterMap) KeySignal(k Key) uint16 {
	k.assertValid()
	return uint16(m.KeySignalMS[k])<<8 | uint16(m.KeySignalLS[k])
}

// ReferenceData returns the cached 16-bit reference of a key, composed
// big-endian from its MS and LS registers.
func (m RegisterMap) ReferenceData(k Key) uint16 {
	k.assertValid()
	return uint16(m.ReferenceDataMS[k])<<8 | uint16(m.ReferenceDataLS[k])
}
