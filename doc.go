/*
Package bitcoin implements a fixed-point bitcoin quantity.
A [Quantity] is an immutable count of satoshis, the smallest indivisible
unit of the currency, with conversions to and from fractional bitcoin
amounts, checked arithmetic, decimal-text parsing, and structured
serialization.

# Features

  - Immutable quantities, ensuring safe usage across multiple goroutines
  - Construction from satoshi counts and from floating-point bitcoin amounts
  - Checked addition and subtraction that surface overflow and underflow
    as errors instead of silently wrapping
  - Decimal-string parsing and human-readable formatting
  - JSON, text, binary, BSON, and database/sql serialization

# Representation

A Quantity stores a single uint64 satoshi count; 10^8 satoshis compose one
bitcoin. Quantities are comparable with == and ordered by their satoshi
count. There are no negative quantities.

# Conversions

Conversions between satoshi counts and bitcoin amounts go through float64,
matching the historical behavior of the textual format: fractional digits
beyond the 8th decimal place are subject to binary-float rounding rather
than decimal-exact rounding, and satoshi counts above 2^53 lose precision
when expressed in bitcoin.

# Serialization

In structured formats the satoshi count always travels as a decimal-digit
string, never a bare number, so that consumers reading JSON as floats
cannot lose precision. The textual format, used by [ParseQuantity] and
[Quantity.MarshalText], is a decimal amount in bitcoin.

# Errors

Parsing and deserialization return errors for malformed input, and
arithmetic returns errors on overflow and underflow. All errors wrap one
of the package's sentinel errors and can be tested with [errors.Is].
*/
package bitcoin
