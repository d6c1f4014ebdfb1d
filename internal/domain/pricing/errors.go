package pricing

import "fmt"

// ErrEngineFault signals a violated pricing invariant. Fatal for the
// current item only; the tick continues with the rest.
type ErrEngineFault struct {
	ItemID string
	Reason string
}

func (e *ErrEngineFault) Error() string {
	return fmt.Sprintf("pricing engine fault for item %s: %s", e.ItemID, e.Reason)
}
