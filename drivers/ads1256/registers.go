package ads1256

// Registers
const (
	RegStatus = 0x00
	RegMux    = 0x01
	RegADCON  = 0x02
	RegDRate  = 0x03
	RegIO     = 0x04
)

// Commands
const (
	CmdWakeup  = 0x00
	CmdRData   = 0x01
	CmdRDataC  = 0x03
	CmdSDataC  = 0x0F
	CmdRReg    = 0x10 // | register
	CmdWReg    = 0x50 // | register
	CmdSelfCal = 0xF0
	CmdSync    = 0xFC
	CmdStandby = 0xFD
	CmdReset   = 0xFE
)

// STATUS bits
const (
	StatusOrder = 0x08
	StatusACal  = 0x04
	StatusBufEn = 0x02
	StatusDRDY  = 0x01
)

// MUX: positive input in the high nibble, negative in the low nibble
const (
	MuxAINCOM = 0x08
	Inputs    = 8
)

// PGA settings for ADCON
const (
	Gain1  = 0x00
	Gain2  = 0x01
	Gain4  = 0x02
	Gain8  = 0x03
	Gain16 = 0x04
	Gain32 = 0x05
	Gain64 = 0x06
)

// DRATE settings at fCLKIN = 7.68 MHz
const (
	Rate100SPS   = 0x82
	Rate1000SPS  = 0xA1
	Rate2000SPS  = 0xB0
	Rate3750SPS  = 0xC0
	Rate7500SPS  = 0xD0
	Rate15000SPS = 0xE0
	Rate30000SPS = 0xF0
)

// MaxCode is the largest positive conversion result
const MaxCode = 0x7FFFFF
