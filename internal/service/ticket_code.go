package service

import (
	"math/rand/v2"
	"strconv"
)

// CodeGenerator 產生 4 位數字票號
type CodeGenerator func() string

// GenerateTicketCode 在 [1000, 9999] 間均勻取值，不保證唯一
func GenerateTicketCode() string {
	return strconv.Itoa(1000 + rand.IntN(9000))
}
