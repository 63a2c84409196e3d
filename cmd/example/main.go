// Example: encoding a batch of order records to ZON and decoding them back.
package main

import (
	"fmt"

	zon "github.com/zonformat/zon"
	"github.com/zonformat/zon/value"
)

func main() {
	statuses := []string{"processing", "shipped", "delivered"}

	var orders []value.Value
	for i := 0; i < 12; i++ {
		orders = append(orders, value.NewMap(map[string]value.Value{
			"id":     value.NewInt(int64(1000 + i)),
			"status": value.NewString(statuses[i%len(statuses)]),
			"total":  value.NewFloat(19.99 + float64(i)),
			"customer": value.NewMap(map[string]value.Value{
				"name": value.NewString("ACME Corp"),
				"tier": value.NewString("gold"),
			}),
		}))
	}

	doc, err := zon.Encode(value.NewList(orders))
	if err != nil {
		fmt.Println("encode error:", err)
		return
	}
	fmt.Println(doc)

	decoded, err := zon.Decode(doc)
	if err != nil {
		fmt.Println("decode error:", err)
		return
	}
	items, _ := decoded.List()
	fmt.Printf("\ndecoded %d rows\n", len(items))
}
