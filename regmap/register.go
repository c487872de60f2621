package regmap

import "fmt"

// RegisterCount is the total number of byte-wide registers on the device,
// covering addresses 0x00 to 0x39.
const RegisterCount = 58

// Base addresses of the register groups. Per-key groups lay keys out in
// ascending order: key 0 sits at the base address, key 6 at the end of the
// group. Signal and reference data use two bytes per key (MS then LS).
const (
	addrChipID          = 0x00
	addrFirmwareVersion = 0x01
	addrDetectionStatus = 0x02
	addrKeyStatus       = 0x03
	addrKeySignal       = 0x04 // 0x04..0x11, MS/LS pairs
	addrReferenceData   = 0x12 // 0x12..0x1F, MS/LS pairs
	addrNThr            = 0x20 // 0x20..0x26
	addrAveAKS          = 0x27 // 0x27..0x2D
	addrDI              = 0x2E // 0x2E..0x34
	addrFOMCGuard       = 0x35
	addrLowPowerMode    = 0x36
	addrMaxOnDuration   = 0x37
	addrCalibrate       = 0x38
	addrReset           = 0x39
)

type registerKind uint8

const (
	kindChipID registerKind = iota
	kindFirmwareVersion
	kindDetectionStatus
	kindKeyStatus
	kindKeySignalMS
	kindKeySignalLS
	kindReferenceDataMS
	kindReferenceDataLS
	kindNegativeThreshold
	kindAveAKS
	kindDetectionIntegrator
	kindFOMCGuard
	kindLowPowerMode
	kindMaxOnDuration
	kindCalibrate
	kindReset
)

// Register identifies one logical register of the device. Scalar registers
// are the package variables below; per-key registers are built with the
// Reg*(key) constructors and carry the key they address.
type Register struct {
	kind registerKind
	key  Key
}

// The scalar registers.
var (
	RegChipID          = Register{kind: kindChipID}
	RegFirmwareVersion = Register{kind: kindFirmwareVersion}
	RegDetectionStatus = Register{kind: kindDetectionStatus}
	RegKeyStatus       = Register{kind: kindKeyStatus}
	RegFOMCGuard       = Register{kind: kindFOMCGuard}
	RegLowPowerMode    = Register{kind: kindLowPowerMode}
	RegMaxOnDuration   = Register{kind: kindMaxOnDuration}
	RegCalibrate       = Register{kind: kindCalibrate}
	RegReset           = Register{kind: kindReset}
)

// RegKeySignalMS returns the register holding the most significant byte of
// the key's signal.
func RegKeySignalMS(k Key) Register {
	k.assertValid()
	return Register{kind: kindKeySignalMS, key: k}
}

// RegKeySignalLS returns the register holding the least significant byte of
// the key's signal.
func RegKeySignalLS(k Key) Register {
	k.assertValid()
	return Register{kind: kindKeySignalLS, key: k}
}

// RegReferenceDataMS returns the register holding the most significant byte
// of the key's reference data.
func RegReferenceDataMS(k Key) Register {
	k.assertValid()
	return Register{kind: kindReferenceDataMS, key: k}
}

// RegReferenceDataLS returns the register holding the least significant byte
// of the key's reference data.
func RegReferenceDataLS(k Key) Register {
	k.assertValid()
	return Register{kind: kindReferenceDataLS, key: k}
}

// RegNegativeThreshold returns the key's NTHR register.
func RegNegativeThreshold(k Key) Register {
	k.assertValid()
	return Register{kind: kindNegativeThreshold, key: k}
}

// RegAveAKS returns the key's shared AVE/AKS register.
func RegAveAKS(k Key) Register {
	k.assertValid()
	return Register{kind: kindAveAKS, key: k}
}

// RegDetectionIntegrator returns the key's DI register.
func RegDetectionIntegrator(k Key) Register {
	k.assertValid()
	return Register{kind: kindDetectionIntegrator, key: k}
}

// Addr returns the physical address of the register. The mapping is total
// and injective over the 58 valid addresses.
func (r Register) Addr() byte {
	switch r.kind {
	case kindChipID:
		return addrChipID
	case kindFirmwareVersion:
		return addrFirmwareVersion
	case kindDetectionStatus:
		return addrDetectionStatus
	case kindKeyStatus:
		return addrKeyStatus
	case kindKeySignalMS:
		return addrKeySignal + 2*byte(r.key)
	case kindKeySignalLS:
		return addrKeySignal + 2*byte(r.key) + 1
	case kindReferenceDataMS:
		return addrReferenceData + 2*byte(r.key)
	case kindReferenceDataLS:
		return addrReferenceData + 2*byte(r.key) + 1
	case kindNegativeThreshold:
		return addrNThr + byte(r.key)
	case kindAveAKS:
		return addrAveAKS + byte(r.key)
	case kindDetectionIntegrator:
		return addrDI + byte(r.key)
	case kindFOMCGuard:
		return addrFOMCGuard
	case kindLowPowerMode:
		return addrLowPowerMode
	case kindMaxOnDuration:
		return addrMaxOnDuration
	case kindCalibrate:
		return addrCalibrate
	case kindReset:
		return addrReset
	}
	panic("regmap: unknown register kind")
}

// Writable reports whether the device accepts writes to the register. The
// identity, status, signal and reference registers are read-only on the
// chip: the device ignores writes there, so the driver never sends them.
func (r Register) Writable() bool {
	switch r.kind {
	case kindChipID, kindFirmwareVersion, kindDetectionStatus, kindKeyStatus,
		kindKeySignalMS, kindKeySignalLS, kindReferenceDataMS, kindReferenceDataLS:
		return false
	}
	return true
}

// String returns the datasheet name of the register.
func (r Register) String() string {
	switch r.kind {
	case kindChipID:
		return "CHIP_ID"
	case kindFirmwareVersion:
		return "FIRMWARE_VERSION"
	case kindDetectionStatus:
		return "DETECTION_STATUS"
	case kindKeyStatus:
		return "KEY_STATUS"
	case kindKeySignalMS:
		return fmt.Sprintf("KEY_SIGNAL_%d_MS", r.key)
	case kindKeySignalLS:
		return fmt.Sprintf("KEY_SIGNAL_%d_LS", r.key)
	case kindReferenceDataMS:
		return fmt.Sprintf("REFERENCE_DATA_%d_MS", r.key)
	case kindReferenceDataLS:
		return fmt.Sprintf("REFERENCE_DATA_%d_LS", r.key)
	case kindNegativeThreshold:
		return fmt.Sprintf("NTHR_KEY_%d", r.key)
	case kindAveAKS:
		return fmt.Sprintf("AVE_AKS_KEY_%d", r.key)
	case kindDetectionIntegrator:
		return fmt.Sprintf("DI_KEY_%d", r.key)
	case kindFOMCGuard:
		return "FO_MC_GUARD"
	case kindLowPowerMode:
		return "LP_MODE"
	case kindMaxOnDuration:
		return "MAX_ON_DURATION"
	case kindCalibrate:
		return "CALIBRATE"
	case kindReset:
		return "RESET"
	}
	return "UNKNOWN"
}

// RegisterAt returns the logical register at a physical address. It is the
// inverse of Addr. The second return value is false for addresses at or
// beyond RegisterCount.
func RegisterAt(addr byte) (Register, bool) {
	switch {
	case addr == addrChipID:
		return RegChipID, true
	case addr == addrFirmwareVersion:
		return RegFirmwareVersion, true
	case addr == addrDetectionStatus:
		return RegDetectionStatus, true
	case addr == addrKeyStatus:
		return RegKeyStatus, true
	case addr >= addrKeySignal && addr < addrReferenceData:
		k := Key((addr - addrKeySignal) / 2)
		if (addr-addrKeySignal)%2 == 0 {
			return RegKeySignalMS(k), true
		}
		return RegKeySignalLS(k), true
	case addr >= addrReferenceData && addr < addrNThr:
		k := Key((addr - addrReferenceData) / 2)
		if (addr-addrReferenceData)%2 == 0 {
			return RegReferenceDataMS(k), true
		}
		return RegReferenceDataLS(k), true
	case addr >= addrNThr && addr < addrAveAKS:
		return RegNegativeThreshold(Key(addr - addrNThr)), true
	case addr >= addrAveAKS && addr < addrDI:
		return RegAveAKS(Key(addr - addrAveAKS)), true
	case addr >= addrDI && addr < addrFOMCGuard:
		return RegDetectionIntegrator(Key(addr - addrDI)), true
	case addr == addrFOMCGuard:
		return RegFOMCGuard, true
	case addr == addrLowPowerMode:
		return RegLowPowerMode, true
	case addr == addrMaxOnDuration:
		return RegMaxOnDuration, true
	case addr == addrCalibrate:
		return RegCalibrate, true
	case addr == addrReset:
		return RegReset, true
	}
	return Register{}, false
}
