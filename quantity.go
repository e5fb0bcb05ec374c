package bitcoin

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// SatoshiPerBitcoin is the number of satoshis in one bitcoin.
const SatoshiPerBitcoin = 1e8

var (
	// ErrInvalidDecimal is returned when parsing free-form text that is not
	// a syntactically valid decimal number.
	ErrInvalidDecimal = errors.New("invalid decimal")

	// ErrInvalidSatoshi is returned when deserializing a value that is not
	// a valid non-negative base-10 satoshi count.
	ErrInvalidSatoshi = errors.New("invalid satoshi count")

	// ErrSatoshiOverflow is returned when the sum of two quantities does not
	// fit in a uint64.
	ErrSatoshiOverflow = errors.New("satoshi overflow")

	// ErrSatoshiUnderflow is returned when subtraction would produce
	// a negative quantity.
	ErrSatoshiUnderflow = errors.New("satoshi underflow")
)

// Quantity type represents a non-negative amount of bitcoin, stored as
// an integer count of satoshis.
// Its zero value corresponds to "0 BTC".
// Quantity is designed to be safe for concurrent use by multiple goroutines.
type Quantity struct {
	sats uint64 // satoshi count
}

// NewQuantityFromSatoshi returns a quantity equal to sats / 10^8 bitcoin.
// It never fails.
// See also method [Quantity.Satoshi].
func NewQuantityFromSatoshi(sats uint64) Quantity {
	return Quantity{sats: sats}
}

// NewQuantityFromBitcoin converts a float, representing an amount in bitcoin,
// to a quantity, rounding to the nearest satoshi with ties away from zero.
// See also method [Quantity.Bitcoin].
//
// The result is unspecified if btc is negative, NaN, or too large to be
// represented as a uint64 satoshi count, following Go's native
// float-to-integer conversion semantics.
func NewQuantityFromBitcoin(btc float64) Quantity {
	return Quantity{sats: uint64(math.Round(btc * SatoshiPerBitcoin))}
}

// ParseQuantity converts a decimal string, representing an amount in bitcoin,
// to a (possibly rounded) quantity.
// The conversion goes through a float64, so fractional digits beyond the 8th
// are lost to binary-float rounding rather than rounded decimal-exactly.
// See also constructor [NewQuantityFromBitcoin].
//
// ParseQuantity returns [ErrInvalidDecimal] if the string is not a valid
// decimal number or does not fit the underlying decimal parser.
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.Parse(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("parsing quantity %q: %w", s, ErrInvalidDecimal)
	}
	f, _ := d.Float64()
	return NewQuantityFromBitcoin(f), nil
}

// MustParseQuantity is like [ParseQuantity] but panics if the string cannot
// be parsed.
// It simplifies safe initialization of global variables holding quantities.
func MustParseQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(fmt.Sprintf("ParseQuantity(%q) failed: %v", s, err))
	}
	return q
}

// Satoshi returns the quantity as an integer count of satoshis.
// See also constructor [NewQuantityFromSatoshi].
func (q Quantity) Satoshi() uint64 {
	return q.sats
}

// Bitcoin returns the quantity as a floating-point amount of bitcoin.
// See also constructor [NewQuantityFromBitcoin].
//
// This conversion may lose data, as float64 cannot represent every satoshi
// count above 2^53 exactly.
func (q Quantity) Bitcoin() float64 {
	return float64(q.sats) / SatoshiPerBitcoin
}

// IsZero returns:
//
//	true  if q = 0
//	false otherwise
func (q Quantity) IsZero() bool {
	return q.sats == 0
}

// Add returns the sum of quantities q and b.
//
// Add returns [ErrSatoshiOverflow] if the sum does not fit in a uint64
// satoshi count.
func (q Quantity) Add(b Quantity) (Quantity, error) {
	c, err := q.add(b)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v + %v]: %w", q, b, err)
	}
	return c, nil
}

func (q Quantity) add(b Quantity) (Quantity, error) {
	sum := q.sats + b.sats
	if sum < q.sats {
		return Quantity{}, ErrSatoshiOverflow
	}
	return Quantity{sats: sum}, nil
}

// Sub returns the difference between quantities q and b.
//
// Sub returns [ErrSatoshiUnderflow] if b is greater than q, since quantities
// cannot be negative.
func (q Quantity) Sub(b Quantity) (Quantity, error) {
	c, err := q.sub(b)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v - %v]: %w", q, b, err)
	}
	return c, nil
}

func (q Quantity) sub(b Quantity) (Quantity, error) {
	if b.sats > q.sats {
		return Quantity{}, ErrSatoshiUnderflow
	}
	return Quantity{sats: q.sats - b.sats}, nil
}

// Cmp compares quantities and returns:
//
//	-1 if q < b
//	 0 if q = b
//	+1 if q > b
//
// See also methods [Quantity.Min], [Quantity.Max].
func (q Quantity) Cmp(b Quantity) int {
	switch {
	case q.sats < b.sats:
		return -1
	case q.sats > b.sats:
		return 1
	default:
		return 0
	}
}

// Min returns the smaller quantity.
// See also method [Quantity.Cmp].
func (q Quantity) Min(b Quantity) Quantity {
	if q.sats <= b.sats {
		return q
	}
	return b
}

// Max returns the larger quantity.
// See also method [Quantity.Cmp].
func (q Quantity) Max(b Quantity) Quantity {
	if q.sats >= b.sats {
		return q
	}
	return b
}

// String implements the [fmt.Stringer] interface and returns a string
// representation of the quantity, e.g. "1.5 BTC".
// Trailing zeros are dropped and integral amounts render without a decimal
// point.
// See also method [Quantity.Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (q Quantity) String() string {
	return strconv.FormatFloat(q.Bitcoin(), 'f', -1, 64) + " BTC"
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example     | Description              |
//	| ------ | ----------- | ------------------------ |
//	| %s, %v | 1.5 BTC     | Amount and unit          |
//	| %q     | "1.5 BTC"   | Quoted amount and unit   |
//	| %f     | 1.5         | Amount in bitcoin        |
//	| %d     | 150000000   | Amount in satoshis       |
//
// The '-' format flag can be used with all verbs.
// Precision is only supported for the %f verb.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (q Quantity) Format(state fmt.State, verb rune) {
	var body string
	switch verb {
	case 'd', 'D':
		body = strconv.FormatUint(q.sats, 10)
	case 'f', 'F':
		prec := -1
		if p, ok := state.Precision(); ok {
			prec = p
		}
		body = strconv.FormatFloat(q.Bitcoin(), 'f', prec, 64)
	case 'q', 'Q':
		body = "\"" + q.String() + "\""
	case 's', 'S', 'v', 'V':
		body = q.String()
	default:
		fmt.Fprintf(state, "%%!%c(bitcoin.Quantity=%s)", verb, q.String())
		return
	}

	// Padding
	if w, ok := state.Width(); ok && w > len(body) {
		pad := strings.Repeat(" ", w-len(body))
		if state.Flag('-') {
			body += pad
		} else {
			body = pad + body
		}
	}

	//nolint:errcheck
	state.Write([]byte(body))
}

// parseSatoshi parses a decimal-digit string as a satoshi count.
func parseSatoshi(s string) (Quantity, error) {
	sats, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q", ErrInvalidSatoshi, s)
	}
	return Quantity{sats: sats}, nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// The input must be a JSON string holding the satoshi count, e.g. "100000000".
// Bare JSON numbers are rejected, as they lose precision in consumers that
// read them as floats.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (q *Quantity) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return fmt.Errorf("unmarshaling %T: expected a string of satoshis: %w", Quantity{}, ErrInvalidSatoshi)
	}
	var err error
	*q, err = parseSatoshi(string(text[1 : len(text)-1]))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Quantity{}, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// MarshalJSON always returns the satoshi count as a JSON string,
// never a bare number.
// See also method [Quantity.Satoshi].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	text := make([]byte, 0, 22)
	text = append(text, '"')
	text = strconv.AppendUint(text, q.sats, 10)
	text = append(text, '"')
	return text, nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// The input is a decimal amount in bitcoin, e.g. "1.00000001".
// See also constructor [ParseQuantity].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (q *Quantity) UnmarshalText(text []byte) error {
	var err error
	*q, err = ParseQuantity(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Quantity{}, err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
// AppendText appends the decimal amount in bitcoin, without the unit suffix.
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (q Quantity) AppendText(text []byte) ([]byte, error) {
	return strconv.AppendFloat(text, q.Bitcoin(), 'f', -1, 64), nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// MarshalText returns the decimal amount in bitcoin, without the unit suffix,
// so that the result round-trips through [ParseQuantity].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (q Quantity) MarshalText() ([]byte, error) {
	return q.AppendText(nil)
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
// The input is a decimal-digit string holding the satoshi count.
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (q *Quantity) UnmarshalBinary(data []byte) error {
	var err error
	*q, err = parseSatoshi(string(data))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Quantity{}, err)
	}
	return nil
}

// AppendBinary implements the [encoding.BinaryAppender] interface.
// AppendBinary appends the satoshi count as decimal digits.
//
// [encoding.BinaryAppender]: https://pkg.go.dev/encoding#BinaryAppender
func (q Quantity) AppendBinary(data []byte) ([]byte, error) {
	return strconv.AppendUint(data, q.sats, 10), nil
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
// MarshalBinary returns the satoshi count as decimal digits.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (q Quantity) MarshalBinary() ([]byte, error) {
	return q.AppendBinary(nil)
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// The input must be a BSON string holding the satoshi count.
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (q *Quantity) UnmarshalBSONValue(typ byte, data []byte) error {
	// constants are from https://bsonspec.org/spec.html
	var err error
	switch typ {
	case 2:
		*q, err = parseBSONString(data)
	case 10:
		// null, do nothing
	default:
		err = fmt.Errorf("BSON type %d is not supported", typ)
	}
	if err != nil {
		err = fmt.Errorf("converting from BSON type %d to %T: %w", typ, Quantity{}, err)
	}
	return err
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// MarshalBSONValue always returns a BSON string holding the satoshi count.
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (q Quantity) MarshalBSONValue() (typ byte, data []byte, err error) {
	return 2, q.bsonString(), nil
}

// parseBSONString parses a BSON string to a quantity.
// The byte order of the input data must be little-endian.
func parseBSONString(data []byte) (Quantity, error) {
	if len(data) < 4 {
		return Quantity{}, fmt.Errorf("%w: invalid data length %v", ErrInvalidSatoshi, len(data))
	}
	u := uint32(data[0])
	u |= uint32(data[1]) << 8
	u |= uint32(data[2]) << 16
	u |= uint32(data[3]) << 24
	l := int(int32(u)) //nolint:gosec
	if l < 1 || len(data) < l+4 {
		return Quantity{}, fmt.Errorf("%w: invalid string length %v", ErrInvalidSatoshi, l)
	}
	if data[l+4-1] != 0 {
		return Quantity{}, fmt.Errorf("%w: invalid null terminator %v", ErrInvalidSatoshi, data[l+4-1])
	}
	s := string(data[4 : l+4-1])
	return parseSatoshi(s)
}

// bsonString returns the BSON string representation of the satoshi count.
// The byte order of the result is little-endian.
func (q Quantity) bsonString() []byte {
	s := strconv.FormatUint(q.sats, 10)
	l := len(s) + 1
	data := make([]byte, 4+l)
	data[0] = byte(l)
	data[1] = byte(l >> 8)
	data[2] = byte(l >> 16)
	data[3] = byte(l >> 24)
	copy(data[4:], s)
	data[4+l-1] = 0
	return data
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (q *Quantity) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*q, err = parseSatoshi(value)
	case []byte:
		*q, err = parseSatoshi(string(value))
	case int64:
		if value < 0 {
			err = fmt.Errorf("%w: %v", ErrInvalidSatoshi, value)
		} else {
			*q = NewQuantityFromSatoshi(uint64(value))
		}
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", Quantity{}, NullQuantity{}, Quantity{})
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Quantity{}, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
// Value always returns the satoshi count as a decimal-digit string.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (q Quantity) Value() (driver.Value, error) {
	return strconv.FormatUint(q.sats, 10), nil
}

// NullQuantity represents a quantity that can be null.
// Its zero value is null.
// NullQuantity is not thread-safe.
type NullQuantity struct {
	Quantity Quantity
	Valid    bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Quantity.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullQuantity) Scan(value any) error {
	if value == nil {
		n.Quantity = Quantity{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Quantity.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// See also method [Quantity.Value].
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullQuantity) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Quantity.Value()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Quantity.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullQuantity) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.Quantity = Quantity{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Quantity.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Quantity.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullQuantity) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Quantity.MarshalJSON()
}
