package regmap

// Key selects one of the 7 capacitive sensing channels of the AT42QT1070.
type Key uint8

// The seven touch keys, in datasheet order.
const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6

	// KeyCount is the number of sensing channels.
	KeyCount = 7
)

// assertValid panics if the key is out of range. Passing a key outside
// 0..6 to any per-key accessor is a programming error, not a runtime
// condition, so it fails loudly instead of clamping.
func (k Key) assertValid() {
	if k >= KeyCount {
		panic("regmap: key index out of range (valid keys are 0 to 6)")
	}
}
