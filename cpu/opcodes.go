package cpu

// opcodeInfo is one row of the fetch-decode dispatch table: which
// addressing mode to resolve, whether that resolution should treat the
// access as a write for page-cross timing purposes, and the function
// that carries out the operation once the operand or effective address
// is ready.
type opcodeInfo struct {
	name    string
	mode    addrMode
	isWrite bool
	exec    func(*CPU)
}

// opcodeTable is indexed directly by opcode byte. The 65C816 opcode
// matrix has no illegal slots - every one of the 256 values is a real
// instruction - but the table is still built by overlaying
// definedOpcodes onto an all-NOP default, in case this transcription
// ever misses a slot.
var opcodeTable [256]opcodeInfo

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeInfo{name: "NOP", mode: amImplied, exec: execNOP}
	}
	for op, info := range definedOpcodes {
		opcodeTable[op] = info
	}
}

var definedOpcodes = map[uint8]opcodeInfo{
	0x00: {"BRK", amImmediate8, false, execBRK},
	0x01: {"ORA", amDirectIndexedIndirect, false, execORA},
	0x02: {"COP", amImmediate8, false, execCOP},
	0x03: {"ORA", amStackRelative, false, execORA},
	0x04: {"TSB", amDirect, true, execTSB},
	0x05: {"ORA", amDirect, false, execORA},
	0x06: {"ASL", amDirect, true, execASL},
	0x07: {"ORA", amDirectIndirectLong, false, execORA},
	0x08: {"PHP", amImplied, false, execPHP},
	0x09: {"ORA", amImmediateM, false, execORA},
	0x0A: {"ASL", amAccumulator, false, execASLAcc},
	0x0B: {"PHD", amImplied, false, execPHD},
	0x0C: {"TSB", amAbsolute, true, execTSB},
	0x0D: {"ORA", amAbsolute, false, execORA},
	0x0E: {"ASL", amAbsolute, true, execASL},
	0x0F: {"ORA", amAbsoluteLong, false, execORA},

	0x10: {"BPL", amRelative8, false, execBPL},
	0x11: {"ORA", amDirectIndirectIndexed, false, execORA},
	0x12: {"ORA", amDirectIndirect, false, execORA},
	0x13: {"ORA", amStackRelativeIndIdxY, false, execORA},
	0x14: {"TRB", amDirect, true, execTRB},
	0x15: {"ORA", amDirectX, false, execORA},
	0x16: {"ASL", amDirectX, true, execASL},
	0x17: {"ORA", amDirectIndirectLongIndexed, false, execORA},
	0x18: {"CLC", amImplied, false, execCLC},
	0x19: {"ORA", amAbsoluteY, false, execORA},
	0x1A: {"INC", amAccumulator, false, execINCAcc},
	0x1B: {"TCS", amImplied, false, execTCS},
	0x1C: {"TRB", amAbsolute, true, execTRB},
	0x1D: {"ORA", amAbsoluteX, false, execORA},
	0x1E: {"ASL", amAbsoluteX, true, execASL},
	0x1F: {"ORA", amAbsoluteLongX, false, execORA},

	0x20: {"JSR", amAbsoluteJMP, false, execJSR},
	0x21: {"AND", amDirectIndexedIndirect, false, execAND},
	0x22: {"JSL", amAbsoluteLong, false, execJSL},
	0x23: {"AND", amStackRelative, false, execAND},
	0x24: {"BIT", amDirect, false, execBIT},
	0x25: {"AND", amDirect, false, execAND},
	0x26: {"ROL", amDirect, true, execROL},
	0x27: {"AND", amDirectIndirectLong, false, execAND},
	0x28: {"PLP", amImplied, false, execPLP},
	0x29: {"AND", amImmediateM, false, execAND},
	0x2A: {"ROL", amAccumulator, false, execROLAcc},
	0x2B: {"PLD", amImplied, false, execPLD},
	0x2C: {"BIT", amAbsolute, false, execBIT},
	0x2D: {"AND", amAbsolute, false, execAND},
	0x2E: {"ROL", amAbsolute, true, execROL},
	0x2F: {"AND", amAbsoluteLong, false, execAND},

	0x30: {"BMI", amRelative8, false, execBMI},
	0x31: {"AND", amDirectIndirectIndexed, false, execAND},
	0x32: {"AND", amDirectIndirect, false, execAND},
	0x33: {"AND", amStackRelativeIndIdxY, false, execAND},
	0x34: {"BIT", amDirectX, false, execBIT},
	0x35: {"AND", amDirectX, false, execAND},
	0x36: {"ROL", amDirectX, true, execROL},
	0x37: {"AND", amDirectIndirectLongIndexed, false, execAND},
	0x38: {"SEC", amImplied, false, execSEC},
	0x39: {"AND", amAbsoluteY, false, execAND},
	0x3A: {"DEC", amAccumulator, false, execDECAcc},
	0x3B: {"TSC", amImplied, false, execTSC},
	0x3C: {"BIT", amAbsoluteX, false, execBIT},
	0x3D: {"AND", amAbsoluteX, false, execAND},
	0x3E: {"ROL", amAbsoluteX, true, execROL},
	0x3F: {"AND", amAbsoluteLongX, false, execAND},

	0x40: {"RTI", amImplied, false, execRTI},
	0x41: {"EOR", amDirectIndexedIndirect, false, execEOR},
	0x42: {"WDM", amImmediate8, false, execNOP},
	0x43: {"EOR", amStackRelative, false, execEOR},
	0x44: {"MVP", amBlockMove, false, execMVP},
	0x45: {"EOR", amDirect, false, execEOR},
	0x46: {"LSR", amDirect, true, execLSR},
	0x47: {"EOR", amDirectIndirectLong, false, execEOR},
	0x48: {"PHA", amImplied, false, execPHA},
	0x49: {"EOR", amImmediateM, false, execEOR},
	0x4A: {"LSR", amAccumulator, false, execLSRAcc},
	0x4B: {"PHK", amImplied, false, execPHK},
	0x4C: {"JMP", amAbsoluteJMP, false, execJMP},
	0x4D: {"EOR", amAbsolute, false, execEOR},
	0x4E: {"LSR", amAbsolute, true, execLSR},
	0x4F: {"EOR", amAbsoluteLong, false, execEOR},

	0x50: {"BVC", amRelative8, false, execBVC},
	0x51: {"EOR", amDirectIndirectIndexed, false, execEOR},
	0x52: {"EOR", amDirectIndirect, false, execEOR},
	0x53: {"EOR", amStackRelativeIndIdxY, false, execEOR},
	0x54: {"MVN", amBlockMove, false, execMVN},
	0x55: {"EOR", amDirectX, false, execEOR},
	0x56: {"LSR", amDirectX, true, execLSR},
	0x57: {"EOR", amDirectIndirectLongIndexed, false, execEOR},
	0x58: {"CLI", amImplied, false, execCLI},
	0x59: {"EOR", amAbsoluteY, false, execEOR},
	0x5A: {"PHY", amImplied, false, execPHY},
	0x5B: {"TCD", amImplied, false, execTCD},
	0x5C: {"JMP", amAbsoluteLong, false, execJML},
	0x5D: {"EOR", amAbsoluteX, false, execEOR},
	0x5E: {"LSR", amAbsoluteX, true, execLSR},
	0x5F: {"EOR", amAbsoluteLongX, false, execEOR},

	0x60: {"RTS", amImplied, false, execRTS},
	0x61: {"ADC", amDirectIndexedIndirect, false, execADC},
	0x62: {"PER", amPER, false, execPER},
	0x63: {"ADC", amStackRelative, false, execADC},
	0x64: {"STZ", amDirect, true, execSTZ},
	0x65: {"ADC", amDirect, false, execADC},
	0x66: {"ROR", amDirect, true, execROR},
	0x67: {"ADC", amDirectIndirectLong, false, execADC},
	0x68: {"PLA", amImplied, false, execPLA},
	0x69: {"ADC", amImmediateM, false, execADC},
	0x6A: {"ROR", amAccumulator, false, execRORAcc},
	0x6B: {"RTL", amImplied, false, execRTL},
	0x6C: {"JMP", amAbsoluteIndirect, false, execJMP},
	0x6D: {"ADC", amAbsolute, false, execADC},
	0x6E: {"ROR", amAbsolute, true, execROR},
	0x6F: {"ADC", amAbsoluteLong, false, execADC},

	0x70: {"BVS", amRelative8, false, execBVS},
	0x71: {"ADC", amDirectIndirectIndexed, false, execADC},
	0x72: {"ADC", amDirectIndirect, false, execADC},
	0x73: {"ADC", amStackRelativeIndIdxY, false, execADC},
	0x74: {"STZ", amDirectX, true, execSTZ},
	0x75: {"ADC", amDirectX, false, execADC},
	0x76: {"ROR", amDirectX, true, execROR},
	0x77: {"ADC", amDirectIndirectLongIndexed, false, execADC},
	0x78: {"SEI", amImplied, false, execSEI},
	0x79: {"ADC", amAbsoluteY, false, execADC},
	0x7A: {"PLY", amImplied, false, execPLY},
	0x7B: {"TDC", amImplied, false, execTDC},
	0x7C: {"JMP", amAbsoluteIndexedIndirect, false, execJMP},
	0x7D: {"ADC", amAbsoluteX, false, execADC},
	0x7E: {"ROR", amAbsoluteX, true, execROR},
	0x7F: {"ADC", amAbsoluteLongX, false, execADC},

	0x80: {"BRA", amRelative8, false, execBRA},
	0x81: {"STA", amDirectIndexedIndirect, true, execSTA},
	0x82: {"BRL", amRelativeLong, false, execBRL},
	0x83: {"STA", amStackRelative, true, execSTA},
	0x84: {"STY", amDirect, true, execSTY},
	0x85: {"STA", amDirect, true, execSTA},
	0x86: {"STX", amDirect, true, execSTX},
	0x87: {"STA", amDirectIndirectLong, true, execSTA},
	0x88: {"DEY", amImplied, false, execDEY},
	0x89: {"BIT", amImmediateM, false, execBIT},
	0x8A: {"TXA", amImplied, false, execTXA},
	0x8B: {"PHB", amImplied, false, execPHB},
	0x8C: {"STY", amAbsolute, true, execSTY},
	0x8D: {"STA", amAbsolute, true, execSTA},
	0x8E: {"STX", amAbsolute, true, execSTX},
	0x8F: {"STA", amAbsoluteLong, true, execSTA},

	0x90: {"BCC", amRelative8, false, execBCC},
	0x91: {"STA", amDirectIndirectIndexed, true, execSTA},
	0x92: {"STA", amDirectIndirect, true, execSTA},
	0x93: {"STA", amStackRelativeIndIdxY, true, execSTA},
	0x94: {"STY", amDirectX, true, execSTY},
	0x95: {"STA", amDirectX, true, execSTA},
	0x96: {"STX", amDirectY, true, execSTX},
	0x97: {"STA", amDirectIndirectLongIndexed, true, execSTA},
	0x98: {"TYA", amImplied, false, execTYA},
	0x99: {"STA", amAbsoluteY, true, execSTA},
	0x9A: {"TXS", amImplied, false, execTXS},
	0x9B: {"TXY", amImplied, false, execTXY},
	0x9C: {"STZ", amAbsolute, true, execSTZ},
	0x9D: {"STA", amAbsoluteX, true, execSTA},
	0x9E: {"STZ", amAbsoluteX, true, execSTZ},
	0x9F: {"STA", amAbsoluteLongX, true, execSTA},

	0xA0: {"LDY", amImmediateX, false, execLDY},
	0xA1: {"LDA", amDirectIndexedIndirect, false, execLDA},
	0xA2: {"LDX", amImmediateX, false, execLDX},
	0xA3: {"LDA", amStackRelative, false, execLDA},
	0xA4: {"LDY", amDirect, false, execLDY},
	0xA5: {"LDA", amDirect, false, execLDA},
	0xA6: {"LDX", amDirect, false, execLDX},
	0xA7: {"LDA", amDirectIndirectLong, false, execLDA},
	0xA8: {"TAY", amImplied, false, execTAY},
	0xA9: {"LDA", amImmediateM, false, execLDA},
	0xAA: {"TAX", amImplied, false, execTAX},
	0xAB: {"PLB", amImplied, false, execPLB},
	0xAC: {"LDY", amAbsolute, false, execLDY},
	0xAD: {"LDA", amAbsolute, false, execLDA},
	0xAE: {"LDX", amAbsolute, false, execLDX},
	0xAF: {"LDA", amAbsoluteLong, false, execLDA},

	0xB0: {"BCS", amRelative8, false, execBCS},
	0xB1: {"LDA", amDirectIndirectIndexed, false, execLDA},
	0xB2: {"LDA", amDirectIndirect, false, execLDA},
	0xB3: {"LDA", amStackRelativeIndIdxY, false, execLDA},
	0xB4: {"LDY", amDirectX, false, execLDY},
	0xB5: {"LDA", amDirectX, false, execLDA},
	0xB6: {"LDX", amDirectY, false, execLDX},
	0xB7: {"LDA", amDirectIndirectLongIndexed, false, execLDA},
	0xB8: {"CLV", amImplied, false, execCLV},
	0xB9: {"LDA", amAbsoluteY, false, execLDA},
	0xBA: {"TSX", amImplied, false, execTSX},
	0xBB: {"TYX", amImplied, false, execTYX},
	0xBC: {"LDY", amAbsoluteX, false, execLDY},
	0xBD: {"LDA", amAbsoluteX, false, execLDA},
	0xBE: {"LDX", amAbsoluteY, false, execLDX},
	0xBF: {"LDA", amAbsoluteLongX, false, execLDA},

	0xC0: {"CPY", amImmediateX, false, execCPY},
	0xC1: {"CMP", amDirectIndexedIndirect, false, execCMP},
	0xC2: {"REP", amImmediate8, false, execREP},
	0xC3: {"CMP", amStackRelative, false, execCMP},
	0xC4: {"CPY", amDirect, false, execCPY},
	0xC5: {"CMP", amDirect, false, execCMP},
	0xC6: {"DEC", amDirect, true, execDEC},
	0xC7: {"CMP", amDirectIndirectLong, false, execCMP},
	0xC8: {"INY", amImplied, false, execINY},
	0xC9: {"CMP", amImmediateM, false, execCMP},
	0xCA: {"DEX", amImplied, false, execDEX},
	0xCB: {"WAI", amImplied, false, execWAI},
	0xCC: {"CPY", amAbsolute, false, execCPY},
	0xCD: {"CMP", amAbsolute, false, execCMP},
	0xCE: {"DEC", amAbsolute, true, execDEC},
	0xCF: {"CMP", amAbsoluteLong, false, execCMP},

	0xD0: {"BNE", amRelative8, false, execBNE},
	0xD1: {"CMP", amDirectIndirectIndexed, false, execCMP},
	0xD2: {"CMP", amDirectIndirect, false, execCMP},
	0xD3: {"CMP", amStackRelativeIndIdxY, false, execCMP},
	0xD4: {"PEI", amPEI, false, execPEI},
	0xD5: {"CMP", amDirectX, false, execCMP},
	0xD6: {"DEC", amDirectX, true, execDEC},
	0xD7: {"CMP", amDirectIndirectLongIndexed, false, execCMP},
	0xD8: {"CLD", amImplied, false, execCLD},
	0xD9: {"CMP", amAbsoluteY, false, execCMP},
	0xDA: {"PHX", amImplied, false, execPHX},
	0xDB: {"STP", amImplied, false, execSTP},
	0xDC: {"JMP", amAbsoluteIndirectLong, false, execJML},
	0xDD: {"CMP", amAbsoluteX, false, execCMP},
	0xDE: {"DEC", amAbsoluteX, true, execDEC},
	0xDF: {"CMP", amAbsoluteLongX, false, execCMP},

	0xE0: {"CPX", amImmediateX, false, execCPX},
	0xE1: {"SBC", amDirectIndexedIndirect, false, execSBC},
	0xE2: {"SEP", amImmediate8, false, execSEP},
	0xE3: {"SBC", amStackRelative, false, execSBC},
	0xE4: {"CPX", amDirect, false, execCPX},
	0xE5: {"SBC", amDirect, false, execSBC},
	0xE6: {"INC", amDirect, true, execINC},
	0xE7: {"SBC", amDirectIndirectLong, false, execSBC},
	0xE8: {"INX", amImplied, false, execINX},
	0xE9: {"SBC", amImmediateM, false, execSBC},
	0xEA: {"NOP", amImplied, false, execNOP},
	0xEB: {"XBA", amImplied, false, execXBA},
	0xEC: {"CPX", amAbsolute, false, execCPX},
	0xED: {"SBC", amAbsolute, false, execSBC},
	0xEE: {"INC", amAbsolute, true, execINC},
	0xEF: {"SBC", amAbsoluteLong, false, execSBC},

	0xF0: {"BEQ", amRelative8, false, execBEQ},
	0xF1: {"SBC", amDirectIndirectIndexed, false, execSBC},
	0xF2: {"SBC", amDirectIndirect, false, execSBC},
	0xF3: {"SBC", amStackRelativeIndIdxY, false, execSBC},
	0xF4: {"PEA", amPEA, false, execPEA},
	0xF5: {"SBC", amDirectX, false, execSBC},
	0xF6: {"INC", amDirectX, true, execINC},
	0xF7: {"SBC", amDirectIndirectLongIndexed, false, execSBC},
	0xF8: {"SED", amImplied, false, execSED},
	0xF9: {"SBC", amAbsoluteY, false, execSBC},
	0xFA: {"PLX", amImplied, false, execPLX},
	0xFB: {"XCE", amImplied, false, execXCE},
	0xFC: {"JSR", amAbsoluteIndexedIndirect, false, execJSR},
	0xFD: {"SBC", amAbsoluteX, false, execSBC},
	0xFE: {"INC", amAbsoluteX, true, execINC},
	0xFF: {"SBC", amAbsoluteLongX, false, execSBC},
}
