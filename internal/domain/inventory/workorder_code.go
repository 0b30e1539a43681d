package inventory

import (
	"context"
	"fmt"
)

// DefaultWorkOrderCodeAttempts intentos de generación de código antes de aceptar
// un candidato posiblemente repetido.
const DefaultWorkOrderCodeAttempts = 8

// CodeTakenFunc indica si un código de orden ya está en uso.
type CodeTakenFunc func(ctx context.Context, code string) (bool, error)

// NextWorkOrderCode genera códigos "WO-" + 5 dígitos hasta encontrar uno libre.
// Si los attempts candidatos están ocupados devuelve el último igualmente: la
// unicidad es best-effort y la restricción UNIQUE de la tabla tiene la última palabra.
// intn debe devolver un entero en [0, n).
func NextWorkOrderCode(ctx context.Context, taken CodeTakenFunc, attempts int, intn func(n int) int) (string, error) {
	if attempts < 1 {
		attempts = 1
	}
	var code string
	for i := 0; i < attempts; i++ {
		code = fmt.Sprintf("WO-%05d", intn(100000))
		exists, err := taken(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return code, nil
}
