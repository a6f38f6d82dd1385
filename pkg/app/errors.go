package app

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/store"
)

var (
	// ErrNotConnected is returned for mutations attempted before a successful connect.
	ErrNotConnected = errors.New("app: not connected")
	// ErrEmptyInput is returned when note content is blank after trimming.
	ErrEmptyInput = errors.New("app: empty note")
	// ErrNoDaySelected is returned when saving without a selected day.
	ErrNoDaySelected = errors.New("app: no day selected")
	// ErrPolicyRejected marks a write refused by the table's access policy.
	ErrPolicyRejected = errors.New("app: write rejected by access policy")
	// ErrMalformedKey is the codec failure, re-exported for callers of this package.
	ErrMalformedKey = datekey.ErrMalformedKey
)

// FailureKind classifies remote failures.
type FailureKind int

const (
	QueryFailed FailureKind = iota
	WriteFailed
	ProbeFailed
)

func (k FailureKind) String() string {
	switch k {
	case QueryFailed:
		return "query failed"
	case WriteFailed:
		return "write failed"
	case ProbeFailed:
		return "connection probe failed"
	default:
		return "remote failure"
	}
}

// Write operations.
const (
	OpInsert = "insert"
	OpDelete = "delete"
)

// RemoteError carries the row store's message verbatim.
type RemoteError struct {
	Kind    FailureKind
	Op      string
	Message string
	Policy  bool
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("app: %s: %s", e.Kind, e.Message)
}

func (e *RemoteError) Unwrap() []error {
	errs := []error{e.Err}
	if e.Policy {
		errs = append(errs, ErrPolicyRejected)
	}
	return errs
}

func remoteError(kind FailureKind, op string, err error) error {
	if err == nil {
		return nil
	}
	re := &RemoteError{Kind: kind, Op: op, Message: err.Error(), Err: err}
	// Only inserts get the policy hint; delete failures are shown verbatim.
	if kind == WriteFailed && op == OpInsert {
		re.Policy = isPolicyRejection(err)
	}
	return re
}

func isPolicyRejection(err error) bool {
	var se *store.Error
	if errors.As(err, &se) && se.Forbidden() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "row-level security") || strings.Contains(msg, "permission denied")
}

// IsKind reports whether err is a RemoteError of kind k.
func IsKind(err error, k FailureKind) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == k
}

// UserMessage renders err the way it is shown to the user.
func UserMessage(err error) string {
	var re *RemoteError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPolicyRejected):
		return "No se pudo guardar por RLS. Ejecuta SUPABASE_SETUP.sql en Supabase para crear políticas de insert/select/delete para anon."
	case errors.As(err, &re):
		switch re.Kind {
		case QueryFailed:
			return "Error consultando notas: " + re.Message
		case ProbeFailed:
			return "No se pudo conectar: " + re.Message
		default:
			if re.Op == OpDelete {
				return "No se pudo eliminar la nota: " + re.Message
			}
			return "No se pudo guardar la nota: " + re.Message
		}
	case errors.Is(err, ErrNotConnected):
		return "Debes conectar el almacén de notas antes de guardar o eliminar notas."
	case errors.Is(err, ErrNoDaySelected):
		return "Primero selecciona un día en el calendario."
	case errors.Is(err, ErrEmptyInput):
		return "La nota está vacía."
	case errors.Is(err, ErrMalformedKey):
		return "Fecha inválida: " + err.Error()
	default:
		return err.Error()
	}
}
