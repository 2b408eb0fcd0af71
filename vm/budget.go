package vm

const OutOfStepsMessage = "Could not reach the end of the program. RunResources has no remaining steps."

// Budget caps the steps of a whole call tree. A zero limit means unlimited.
type Budget struct {
	limit uint64
	used  uint64
}

func NewBudget(limit uint64) *Budget {
	return &Budget{limit: limit}
}

// Consume charges n steps, failing once the limit would be exceeded
func (b *Budget) Consume(n uint64) error {
	if b.limit != 0 && b.used+n > b.limit {
		b.used = b.limit
		return &ExecutionError{Message: OutOfStepsMessage}
	}
	b.used += n
	return nil
}

func (b *Budget) Used() uint64 {
	return b.used
}

// Remaining returns the steps left, or the maximum uint64 when unlimited
func (b *Budget) Remaining() uint64 {
	if b.limit == 0 {
		return ^uint64(0)
	}
	return b.limit - b.used
}
