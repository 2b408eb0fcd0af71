package utils

import (
	"strings"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
)

func Map[T1, T2 any](slice []T1, f func(T1) T2) []T2 {
	if slice == nil {
		return nil
	}

	result := make([]T2, len(slice))
	for i, e := range slice {
		result[i] = f(e)
	}

	return result
}

func FeltArrToString(arr []felt.Felt) string {
	res := make([]string, len(arr))
	for i := range arr {
		res[i] = arr[i].String()
	}
	return strings.Join(res, ", ")
}
