package shared_test

import (
	"fmt"

	"github.com/moontrade/shared"
)

func Example() {
	type quote struct {
		Bid, Ask int64
	}

	p, err := shared.New(quote{Bid: 99, Ask: 101})
	if err != nil {
		panic(err)
	}
	fmt.Println("owners:", p.UseCount())

	q := p.Clone()
	fmt.Println("owners:", p.UseCount())
	fmt.Println("bid:", q.Get().Bid)

	q.Release()
	fmt.Println("owners:", p.UseCount())

	p.Release() // last owner, block freed here
	fmt.Println("null:", p.IsNil())

	// Output:
	// owners: 1
	// owners: 2
	// bid: 99
	// owners: 1
	// null: true
}
