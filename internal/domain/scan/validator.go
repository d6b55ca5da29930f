// Package scan implementa el protocolo de verificación en dos fases por
// línea de tarea: primero la ubicación, después el lote/SKU. Funciones puras
// sobre la línea cargada; el caso de uso aplica el transfer y persiste.
package scan

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// Normalize deja un código escaneado en forma canónica: NFKC (los lectores
// de mano pueden emitir variantes de ancho completo), sin espacios en los
// extremos y en mayúsculas.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(code)))
}

// ExpectedLocation devuelve el código de ubicación que la fase 1 debe
// verificar según el tipo de tarea: el origen para tareas que sacan stock
// (PICK, MOVE, REPLENISH) y el destino para las que lo colocan
// (RECEIVE_PUTAWAY, PACK).
func ExpectedLocation(taskType string, line *entity.TaskLine) string {
	switch taskType {
	case entity.TaskTypeReceivePutaway, entity.TaskTypePack:
		return line.DestCode
	default:
		return line.SourceCode
	}
}

// VerifyLocation ejecuta la fase 1 sobre la línea. En caso de acierto
// enciende LocationVerified; en caso de fallo devuelve LocationMismatchError
// con el código esperado y no toca la línea. Una línea sin ubicación esperada
// (un PACK encadenado a la espera de estación) nunca pasa la fase 1.
func VerifyLocation(taskType string, line *entity.TaskLine, code string) error {
	if line.Done() {
		return domain.ErrAlreadyCompleted
	}
	expected := ExpectedLocation(taskType, line)
	if expected == "" || Normalize(code) != Normalize(expected) {
		return &domain.LocationMismatchError{Expected: expected}
	}
	line.LocationVerified = true
	return nil
}

// VerifyItem ejecuta la fase 2: compara el código escaneado contra el código
// de lote o el SKU del producto. Solo es alcanzable con la ubicación ya
// verificada en el ciclo vigente; un fallo apaga LocationVerified para
// forzar la revalidación de la ubicación en el reintento.
func VerifyItem(line *entity.TaskLine, code string) error {
	if line.Done() {
		return domain.ErrAlreadyCompleted
	}
	if !line.LocationVerified {
		return &domain.ItemMismatchError{Expected: line.LotCode}
	}
	got := Normalize(code)
	if got != Normalize(line.LotCode) && (line.SKU == "" || got != Normalize(line.SKU)) {
		line.LocationVerified = false
		return &domain.ItemMismatchError{Expected: line.LotCode}
	}
	return nil
}
