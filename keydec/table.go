package keydec

// Unmapped is the table sentinel for scancodes with no character assigned.
const Unmapped byte = 0x00

// Enter is the character code carried by a decoded Enter key.
const Enter byte = 0x0D

// scancodeTable maps PS/2 set-2 make codes to the characters the
// calculator understands. Both the top-row digits and the keypad digits
// are mapped; the operators come from the keypad. Everything else decodes
// to the unmapped sentinel and is dropped before an event is emitted.
var scancodeTable = [256]byte{
	0x16: '1', 0x1E: '2', 0x26: '3', 0x25: '4', 0x2E: '5',
	0x36: '6', 0x3D: '7', 0x3E: '8', 0x46: '9', 0x45: '0',

	0x69: '1', 0x72: '2', 0x7A: '3', 0x6B: '4', 0x73: '5',
	0x74: '6', 0x6C: '7', 0x75: '8', 0x7D: '9', 0x70: '0',

	0x79: '+', 0x7B: '-', 0x7C: '*', 0x4A: '/',
	0x5A: Enter,
}

// makeCodes is the reverse mapping used by the transmitter side.
var makeCodes = map[byte]byte{
	'0': 0x45, '1': 0x16, '2': 0x1E, '3': 0x26, '4': 0x25,
	'5': 0x2E, '6': 0x36, '7': 0x3D, '8': 0x3E, '9': 0x46,
	'+': 0x79, '-': 0x7B, '*': 0x7C, '/': 0x4A,
	Enter: 0x5A,
}

func charFor(code byte) byte {
	return scancodeTable[code]
}
