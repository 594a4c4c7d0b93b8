package main

import (
	"fmt"
	"strconv"
)

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}

func formatAddress(addr byte) string {
	return fmt.Sprintf("%#02x", addr)
}
