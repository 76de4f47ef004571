package wallet

import (
	"github.com/shopspring/decimal"
)

// Op is the kind of change a Mutation makes to a bucket.
type Op int

const (
	OpIncrement Op = iota
	OpSet
)

func (o Op) String() string {
	switch o {
	case OpIncrement:
		return "increment"
	case OpSet:
		return "set"
	}
	return "unknown"
}

// Mutation is one change to one wallet bucket.
type Mutation struct {
	Bucket string
	Op     Op
	Amount decimal.Decimal
}

func Increment(bucket string, amount decimal.Decimal) Mutation {
	return Mutation{Bucket: bucket, Op: OpIncrement, Amount: amount}
}

func Set(bucket string, amount decimal.Decimal) Mutation {
	return Mutation{Bucket: bucket, Op: OpSet, Amount: amount}
}
