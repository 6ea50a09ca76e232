package drv2605l

// Address is the fixed 7-bit I2C address
const Address = 0x5A

// Registers
const (
	RegStatus       = 0x00
	RegMode         = 0x01
	RegRTPInput     = 0x02
	RegLibrarySel   = 0x03
	RegWaveSeq1     = 0x04
	RegWaveSeq2     = 0x05
	RegGo           = 0x0C
	RegRatedVoltage = 0x16
	RegODClamp      = 0x17
	RegACalComp     = 0x18
	RegACalBEMF     = 0x19
	RegFeedback     = 0x1A
	RegControl1     = 0x1B
	RegControl2     = 0x1C
	RegControl3     = 0x1D
)

// MODE register
const (
	ModeInternalTrigger = 0x00
	ModeAutoCalibration = 0x07
	ModeStandby         = 0x40
	ModeReset           = 0x80
)

// STATUS register
const (
	StatusDeviceIDShift = 5
	StatusDiagResult    = 0x08
	StatusOverTemp      = 0x02
	StatusOCDetect      = 0x01

	// DeviceID is the DEVICE_ID field value of a DRV2605L
	DeviceID = 0x07
)

// LibraryLRA selects the Immersion LRA effect library
const LibraryLRA = 0x06

// Effect IDs valid in the ROM libraries
const (
	EffectMin = 1
	EffectMax = 123
)
