package bitcoin_test

import (
	"encoding/json"
	"fmt"

	bitcoin "github.com/coblox/bitcoin-quantity"
)

// In this example, a deposit is credited to a wallet balance and
// a withdrawal fee is charged, with underflow checked along the way.
func Example_walletBalance() {
	balance := bitcoin.MustParseQuantity("1.5")
	deposit := bitcoin.NewQuantityFromBitcoin(0.25)

	balance, err := balance.Add(deposit)
	if err != nil {
		panic(err)
	}

	fee := bitcoin.NewQuantityFromSatoshi(25_000_000)
	balance, err = balance.Sub(fee)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Balance = %v\n", balance)
	// Output:
	// Balance = 1.5 BTC
}

// In this example, an invoice amount travels through JSON as a string of
// satoshis, so consumers reading the document as floats cannot lose
// precision.
func Example_jsonInterchange() {
	type Invoice struct {
		Amount bitcoin.Quantity `json:"amount"`
	}

	data, err := json.Marshal(Invoice{Amount: bitcoin.NewQuantityFromSatoshi(100_000_000)})
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))

	var inv Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		panic(err)
	}
	fmt.Println(inv.Amount)
	// Output:
	// {"amount":"100000000"}
	// 1 BTC
}

func ExampleNewQuantityFromSatoshi() {
	q := bitcoin.NewQuantityFromSatoshi(200_000_000)
	fmt.Println(q)
	// Output: 2 BTC
}

func ExampleNewQuantityFromBitcoin() {
	q := bitcoin.NewQuantityFromBitcoin(42.0)
	fmt.Println(q)
	// Output: 42 BTC
}

func ExampleParseQuantity() {
	fmt.Println(bitcoin.ParseQuantity("1234.00000100"))
	fmt.Println(bitcoin.ParseQuantity("100"))
	// Output:
	// 1234.000001 BTC <nil>
	// 100 BTC <nil>
}

func ExampleMustParseQuantity() {
	fmt.Println(bitcoin.MustParseQuantity("1.00000001"))
	// Output: 1.00000001 BTC
}

func ExampleQuantity_Satoshi() {
	q := bitcoin.NewQuantityFromBitcoin(1.0)
	fmt.Println(q.Satoshi())
	// Output: 100000000
}

func ExampleQuantity_Bitcoin() {
	q := bitcoin.NewQuantityFromSatoshi(100_000_000)
	fmt.Println(q.Bitcoin())
	// Output: 1
}

func ExampleQuantity_Add() {
	a := bitcoin.MustParseQuantity("1.5")
	b := bitcoin.MustParseQuantity("0.5")
	fmt.Println(a.Add(b))
	// Output: 2 BTC <nil>
}

func ExampleQuantity_Sub() {
	a := bitcoin.MustParseQuantity("1.5")
	b := bitcoin.MustParseQuantity("0.5")
	fmt.Println(a.Sub(b))
	// Output: 1 BTC <nil>
}

func ExampleQuantity_Cmp() {
	a := bitcoin.NewQuantityFromSatoshi(100)
	b := bitcoin.NewQuantityFromSatoshi(200)
	fmt.Println(a.Cmp(b))
	fmt.Println(a.Cmp(a))
	fmt.Println(b.Cmp(a))
	// Output:
	// -1
	// 0
	// 1
}

func ExampleQuantity_String() {
	q := bitcoin.MustParseQuantity("1234.00000100")
	fmt.Println(q.String())
	// Output: 1234.000001 BTC
}

func ExampleQuantity_Format() {
	q := bitcoin.NewQuantityFromSatoshi(150_000_000)
	fmt.Printf("%v\n", q)
	fmt.Printf("%q\n", q)
	fmt.Printf("%f\n", q)
	fmt.Printf("%.2f\n", q)
	fmt.Printf("%d\n", q)
	// Output:
	// 1.5 BTC
	// "1.5 BTC"
	// 1.5
	// 1.50
	// 150000000
}
