package tip

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import "context"

// HeightSource reports the height of the node's best block.
type HeightSource interface {
	BlockCount(ctx context.Context) (uint64, error)
}
