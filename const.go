package cronto

// alphabet is the 40-symbol alphabet transaction messages are packed into:
// digits, uppercase letters, and four punctuation/control symbols.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ =&%"

// escapeTable maps a byte value to the literal rune it represents once
// percent-escaped (e.g. byte 0x3A unescapes to ':'). This is a fixed wire
// constant: every byte value a message cell can legally encode, and the
// printable rune it's shown as.
var escapeTable = map[byte]rune{
	33: '!', 35: '#', 36: '$', 37: '%', 38: '&', 39: '\'', 40: '(', 41: ')',
	42: '*', 43: '+', 44: ',', 45: '-', 46: '.', 47: '/', 58: ':', 60: '<',
	61: '=', 62: '>', 63: '?', 64: '@', 95: '_', 123: '{', 125: '}',
	132: '…', 163: '£', 164: '€', 167: '§', 170: 'ª',
	171: '«', 186: 'º', 187: '»', 188: 'Œ', 190: 'Ÿ',
	192: 'À', 194: 'Â', 196: 'Ä', 199: 'Ç', 200: 'È',
	201: 'É', 202: 'Ê', 203: 'Ë', 204: 'Ì', 206: 'Î',
	207: 'Ï', 210: 'Ò', 211: 'Ó', 212: 'Ô', 214: 'Ö',
	217: 'Ù', 219: 'Û', 220: 'Ü', 223: 'ß',
}

// unescapeTable is escapeTable's inverse: the rune to the byte that
// percent-escapes it.
var unescapeTable = func() map[rune]byte {
	m := make(map[rune]byte, len(escapeTable))
	for b, r := range escapeTable {
		m[r] = b
	}
	return m
}()

// alignmentEntry is one (fixed pattern, data-modules-to-splice-in) step of
// the barcode's alignment pattern.
type alignmentEntry struct {
	pattern []byte
	take    int
}

// alignmentTable is the barcode's fixed splice pattern: a sequence of
// literal alignment modules interleaved with runs of data modules pulled
// from the Reed-Solomon codeword. Sum of `take` is 568 (= 142 codeword
// bytes * 4 modules/byte); alignment literals add a further 57 modules for
// 625 total, a 25x25 matrix.
var alignmentTable = []alignmentEntry{
	{[]byte{0, 0, 0}, 8},
	{[]byte{0, 3, 0}, 8},
	{[]byte{0, 0, 3, 0, 3, 0}, 8},
	{[]byte{0, 0, 0}, 9},
	{[]byte{0, 0, 0, 0, 0}, 222},
	{[]byte{0, 0}, 9},
	{[]byte{0, 0, 0}, 9},
	{[]byte{0, 0, 3, 0}, 9},
	{[]byte{0, 3, 0}, 9},
	{[]byte{0, 3, 0, 0}, 9},
	{[]byte{0, 0, 0}, 9},
	{[]byte{0, 0}, 225},
	{[]byte{0, 0}, 9},
	{[]byte{0, 0, 0}, 9},
	{[]byte{0, 0, 3, 0, 0}, 8},
	{[]byte{0, 3, 0}, 8},
	{[]byte{3, 0, 3}, 0},
}

// codeShuffle maps a code length (6 or 7 digits) to the digit-position
// permutation applied before display: output position i takes the input
// digit at shuffle[i].
var codeShuffle = map[int][]int{
	6: {5, 4, 3, 1, 2, 0},
	7: {5, 4, 3, 1, 6, 0, 2},
}

// codeDeshuffle is codeShuffle's inverse per code length, verified by an
// exhaustive round-trip test over the full code space.
var codeDeshuffle = map[int][]int{
	6: {5, 3, 4, 2, 1, 0},
	7: {5, 3, 6, 2, 1, 0, 4},
}

// Reed-Solomon / barcode matrix parameters: a 142-byte codeword carrying
// 92 bytes of message (89-byte frame + 3-byte CRC-24) under 50 parity
// bytes, encoded with a generator polynomial rooted at 2^1.
const (
	blockSize  = 142
	eccSymbols = 50
	rsFCR      = 1
)
